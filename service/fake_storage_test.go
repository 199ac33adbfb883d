package service

// In-memory storage.IStorage used by the service tests. It honors the
// same contracts the Postgres repos do: uniqueness on
// (request_id, driver_id), the one-active-request guard, conditional
// status updates reporting whether a row changed, and (nil, nil) on
// absent detail reads.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/geo"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type testLogger struct{}

func (testLogger) Debug(string, ...logger.Field)   {}
func (testLogger) Info(string, ...logger.Field)    {}
func (testLogger) Error(string, ...logger.Field)   {}
func (testLogger) Warning(string, ...logger.Field) {}

type memStore struct {
	mu            sync.Mutex
	requests      map[int64]*models.EstimateRequest
	estimates     map[int64]*models.Estimate
	reviews       map[int64]*models.Review // keyed by estimate id
	offices       map[int64]*models.DriverOffice
	drivers       []*models.DriverSummary
	notifications []*models.Notification
	auditActions  []string
	nextID        int64
	nextSeq       int64
	now           time.Time
}

func newMemStore() *memStore {
	return &memStore{
		requests:  make(map[int64]*models.EstimateRequest),
		estimates: make(map[int64]*models.Estimate),
		reviews:   make(map[int64]*models.Review),
		offices:   make(map[int64]*models.DriverOffice),
		now:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// tick returns a strictly increasing timestamp so created_at ordering
// is unambiguous.
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) Request() storage.IRequestStorage           { return memRequests{m} }
func (m *memStore) Estimate() storage.IEstimateStorage         { return memEstimates{m} }
func (m *memStore) Review() storage.IReviewStorage             { return memReviews{m} }
func (m *memStore) Office() storage.IOfficeStorage             { return memOffices{m} }
func (m *memStore) Driver() storage.IDriverStorage             { return memDrivers{m} }
func (m *memStore) Notification() storage.INotificationStorage { return memNotifications{m} }
func (m *memStore) Audit() storage.IAuditStorage               { return memAudit{m} }

func (m *memStore) WithinTx(_ context.Context, fn func(storage.IStorage) error) error {
	return fn(m)
}

func (m *memStore) Close()                 {}
func (m *memStore) GetPool() *pgxpool.Pool { return nil }

// --- requests ---

type memRequests struct{ m *memStore }

func (s memRequests) Create(_ context.Context, req *models.EstimateRequest) (*models.EstimateRequest, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.RequesterID == req.RequesterID && r.Status == models.RequestPending && !r.SoftDeleted {
			return nil, apperr.Conflict("an active estimate request already exists")
		}
	}
	req.ID = m.id()
	req.Status = models.RequestPending
	req.CreatedAt = m.tick()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	m.requests[req.ID] = &cp
	return req, nil
}

func (s memRequests) GetByID(_ context.Context, id int64) (*models.EstimateRequest, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.SoftDeleted {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s memRequests) HasActivePending(_ context.Context, requesterID int64) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.RequesterID == requesterID && r.Status == models.RequestPending && !r.SoftDeleted {
			return true, nil
		}
	}
	return false, nil
}

func (s memRequests) ConfirmIfPending(_ context.Context, id int64) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.SoftDeleted || r.Status != models.RequestPending {
		return false, nil
	}
	r.Status = models.RequestConfirmed
	return true, nil
}

func (s memRequests) CancelIfPending(_ context.Context, id, requesterID int64) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.SoftDeleted || r.RequesterID != requesterID || r.Status != models.RequestPending {
		return false, nil
	}
	r.Status = models.RequestCancelled
	r.SoftDeleted = true
	return true, nil
}

func (s memRequests) PendingInBox(_ context.Context, box geo.Box) ([]*models.NearbyRequest, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.NearbyRequest
	for _, r := range m.requests {
		if r.Status != models.RequestPending || r.SoftDeleted || r.From == nil {
			continue
		}
		if !box.Contains(geo.Point{Lat: r.From.Lat, Lng: r.From.Lng}) {
			continue
		}
		out = append(out, &models.NearbyRequest{
			RequestID:  r.ID,
			MovingType: r.MovingType,
			MovingDate: r.MovingDate,
			CreatedAt:  r.CreatedAt,
			From:       *r.From,
		})
	}
	return out, nil
}

// --- estimates ---

type memEstimates struct{ m *memStore }

func (s memEstimates) Create(_ context.Context, est *models.Estimate) (*models.Estimate, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.estimates {
		if e.RequestID == est.RequestID && e.DriverID == est.DriverID {
			return nil, apperr.Conflict("already submitted an estimate for this request")
		}
	}
	est.ID = m.id()
	est.CreatedAt = m.tick()
	est.UpdatedAt = est.CreatedAt
	cp := *est
	m.estimates[est.ID] = &cp
	return est, nil
}

func (s memEstimates) GetByID(_ context.Context, id int64) (*models.Estimate, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.estimates[id]
	if !ok || e.SoftDeleted {
		return nil, nil
	}
	cp := *e
	if r, ok := m.requests[e.RequestID]; ok {
		rc := *r
		cp.Request = &rc
	}
	return &cp, nil
}

func (s memEstimates) ExistsFor(_ context.Context, requestID, driverID int64) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.estimates {
		if e.RequestID == requestID && e.DriverID == driverID {
			return true, nil
		}
	}
	return false, nil
}

func (s memEstimates) Confirm(_ context.Context, id int64) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.estimates[id]
	if !ok || e.SoftDeleted || e.Status != models.EstimatePending {
		return false, nil
	}
	e.Status = models.EstimateConfirmed
	return true, nil
}

func (s memEstimates) RejectSiblings(_ context.Context, requestID, keepID int64) (int64, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.estimates {
		if e.RequestID == requestID && e.ID != keepID && e.Status == models.EstimatePending {
			e.Status = models.EstimateRejected
			n++
		}
	}
	return n, nil
}

func (s memEstimates) PendingByRequest(_ context.Context, requestID int64) ([]*models.Estimate, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Estimate
	for _, e := range m.estimates {
		if e.RequestID == requestID && e.Status == models.EstimatePending && !e.SoftDeleted {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memEstimates) list(match func(*models.Estimate) bool, cursor *int64, limit int) []*models.Estimate {
	m := s.m
	var all []*models.Estimate
	for _, e := range m.estimates {
		if match(e) && !e.SoftDeleted {
			cp := *e
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID }) // newest first
	start := 0
	if cursor != nil {
		for i, e := range all {
			if e.ID == *cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + limit + 1
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (s memEstimates) ListReceived(_ context.Context, requesterID int64, cursor *int64, limit int) ([]*models.Estimate, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	return s.list(func(e *models.Estimate) bool {
		r, ok := m.requests[e.RequestID]
		return ok && r.RequesterID == requesterID
	}, cursor, limit), nil
}

func (s memEstimates) ListByDriver(_ context.Context, driverID int64, status models.EstimateStatus, cursor *int64, limit int) ([]*models.Estimate, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.list(func(e *models.Estimate) bool {
		return e.DriverID == driverID && e.Status == status
	}, cursor, limit), nil
}

// --- reviews ---

type memReviews struct{ m *memStore }

func (s memReviews) CreatePlaceholder(_ context.Context, estimateID, authorID int64) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.reviews[estimateID]; exists {
		return apperr.Conflict("review placeholder already exists")
	}
	m.reviews[estimateID] = &models.Review{
		ID:               m.id(),
		EstimateID:       estimateID,
		AuthoredByUserID: authorID,
		CreatedAt:        m.tick(),
	}
	return nil
}

func (s memReviews) GetByEstimate(_ context.Context, estimateID int64) (*models.Review, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.reviews[estimateID]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (s memReviews) FillIn(_ context.Context, estimateID, authorID int64, rating int, content string) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.reviews[estimateID]
	if !ok || rv.AuthoredByUserID != authorID || rv.Rating != nil {
		return false, nil
	}
	rv.Rating = &rating
	rv.Content = &content
	rv.UpdatedAt = m.tick()
	return true, nil
}

func (s memReviews) ListWrittenByDriver(_ context.Context, driverID int64, cursor *int64, limit int) ([]*models.Review, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Review
	for _, rv := range m.reviews {
		e, ok := m.estimates[rv.EstimateID]
		if !ok || e.DriverID != driverID || rv.Rating == nil {
			continue
		}
		cp := *rv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	start := 0
	if cursor != nil {
		for i, rv := range out {
			if rv.ID == *cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + limit + 1
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

// --- offices ---

type memOffices struct{ m *memStore }

func (s memOffices) Get(_ context.Context, driverID int64) (*models.DriverOffice, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offices[driverID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s memOffices) Upsert(_ context.Context, office *models.DriverOffice) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *office
	m.offices[office.DriverID] = &cp
	return nil
}

// --- drivers ---

type memDrivers struct{ m *memStore }

func (s memDrivers) ListSummaries(_ context.Context, f storage.DriverListFilter) ([]*models.DriverSummary, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*models.DriverSummary
	for _, d := range m.drivers {
		if f.Region != "" && string(d.Region) != f.Region {
			continue
		}
		if f.Service != "" && d.ServiceType != f.Service {
			continue
		}
		cp := *d
		all = append(all, &cp)
	}
	key := func(d *models.DriverSummary) float64 {
		switch f.Sort {
		case storage.SortHighestRating:
			return d.AvgRating
		case storage.SortMostConfirmed:
			return float64(d.ConfirmedCount)
		case storage.SortMostFavorited:
			return float64(d.FavoriteCount)
		default:
			return float64(d.ReviewCount)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if key(all[i]) != key(all[j]) {
			return key(all[i]) > key(all[j])
		}
		return all[i].DriverID < all[j].DriverID
	})
	start := 0
	if f.Cursor != nil {
		for i, d := range all {
			if d.DriverID == *f.Cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + f.Limit + 1
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// --- notifications, audit ---

type memNotifications struct{ m *memStore }

func (s memNotifications) Create(_ context.Context, n *models.Notification) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	n.Seq = m.nextSeq
	n.CreatedAt = m.tick()
	cp := *n
	m.notifications = append(m.notifications, &cp)
	return nil
}

func (s memNotifications) ListByUser(_ context.Context, userID int64, cursor *int64, limit int) ([]*models.Notification, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.UserID != userID {
			continue
		}
		if cursor != nil && n.Seq >= *cursor {
			continue
		}
		cp := *n
		out = append(out, &cp)
		if len(out) == limit+1 {
			break
		}
	}
	return out, nil
}

func (s memNotifications) UnreadCount(_ context.Context, userID int64) (int, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s memNotifications) MarkAllRead(_ context.Context, userID int64) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

type memAudit struct{ m *memStore }

func (s memAudit) Record(_ context.Context, actorID int64, action, entity string, entityID int64, at time.Time) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditActions = append(m.auditActions, action)
	return nil
}
