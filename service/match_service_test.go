package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/models"
	"movingmatch/pkg/notify"
)

type fakeFanout struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakeFanout) Register(userID int64) chan notify.Event       { return make(chan notify.Event, 1) }
func (f *fakeFanout) Unregister(userID int64, ch chan notify.Event) {}

func (f *fakeFanout) Publish(_ context.Context, ev notify.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeFanout) published() []notify.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Event(nil), f.events...)
}

func newMatchEnv(t *testing.T) (*memStore, *fakeFanout, MatchService) {
	t.Helper()
	stg := newMemStore()
	fan := &fakeFanout{}
	return stg, fan, NewMatchService(stg, fan, testLogger{})
}

func seedRequest(t *testing.T, stg *memStore, requesterID int64) *models.EstimateRequest {
	t.Helper()
	req, err := stg.Request().Create(context.Background(), &models.EstimateRequest{
		RequesterID: requesterID,
		MovingType:  models.MovingHome,
		MovingDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		From:        &models.Address{Type: models.AddressFrom, Lat: 37.5665, Lng: 126.9780},
		To:          &models.Address{Type: models.AddressTo, Lat: 35.1796, Lng: 129.0756},
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func TestSubmitEstimateCreatesBidReviewAndNotification(t *testing.T) {
	stg, fan, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	est, err := svc.SubmitEstimate(ctx, req.ID, 200, 500000, "ok")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if est.Status != models.EstimatePending {
		t.Errorf("estimate status %q, want PENDING", est.Status)
	}
	if est.Price == nil || *est.Price != 500000 {
		t.Error("price not stored")
	}

	rv, err := stg.Review().GetByEstimate(ctx, est.ID)
	if err != nil || rv == nil {
		t.Fatalf("review placeholder missing: %v", err)
	}
	if rv.Written() {
		t.Error("placeholder must be created unwritten")
	}
	if rv.AuthoredByUserID != 100 {
		t.Errorf("placeholder author %d, want the requester", rv.AuthoredByUserID)
	}

	if len(stg.auditActions) != 1 || stg.auditActions[0] != "estimate.submit" {
		t.Errorf("audit entries %v, want one estimate.submit", stg.auditActions)
	}

	events := fan.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].UserID != 100 || events[0].Type != models.NotifyEstimateReceived {
		t.Errorf("wrong event %+v", events[0])
	}
	rows, _ := stg.Notification().ListByUser(ctx, 100, nil, 10)
	if len(rows) != 1 || rows[0].ID != events[0].ID {
		t.Error("published event must match the persisted notification row")
	}
}

func TestSubmitEstimateDuplicateConflicts(t *testing.T) {
	stg, _, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	if _, err := svc.SubmitEstimate(ctx, req.ID, 200, 500000, "ok"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.SubmitEstimate(ctx, req.ID, 200, 600000, "again")
	if !apperr.IsConflict(err) {
		t.Fatalf("second submit: got %v, want conflict", err)
	}

	// a different driver is still free to bid
	if _, err := svc.SubmitEstimate(ctx, req.ID, 201, 450000, "cheaper"); err != nil {
		t.Errorf("other driver's submit: %v", err)
	}
}

func TestSubmitEstimateValidation(t *testing.T) {
	stg, _, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	if _, err := svc.SubmitEstimate(ctx, req.ID, 200, 0, "ok"); !apperr.IsValidation(err) {
		t.Errorf("zero price: got %v, want validation", err)
	}
	if _, err := svc.SubmitEstimate(ctx, req.ID, 200, 100, ""); !apperr.IsValidation(err) {
		t.Errorf("empty comment: got %v, want validation", err)
	}
}

func TestSubmitEstimateMissingRequest(t *testing.T) {
	_, _, svc := newMatchEnv(t)
	_, err := svc.SubmitEstimate(context.Background(), 9999, 200, 100, "ok")
	if !apperr.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestRejectEstimateLeavesRequestOpen(t *testing.T) {
	stg, fan, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	// another driver's pending bid must survive the decline
	if _, err := svc.SubmitEstimate(ctx, req.ID, 201, 300000, "bid"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	est, err := svc.RejectEstimate(ctx, req.ID, 200, "fully booked")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if est.Status != models.EstimateRejected {
		t.Errorf("estimate status %q, want REJECTED", est.Status)
	}
	if est.Price != nil {
		t.Error("a decline carries no price")
	}

	got, _ := stg.Request().GetByID(ctx, req.ID)
	if got.Status != models.RequestPending {
		t.Errorf("request status %q, a single decline must not close the request", got.Status)
	}
	pending, _ := stg.Estimate().PendingByRequest(ctx, req.ID)
	if len(pending) != 1 {
		t.Errorf("other drivers' pending estimates: %d, want 1", len(pending))
	}

	// no review placeholder for declines
	if rv, _ := stg.Review().GetByEstimate(ctx, est.ID); rv != nil {
		t.Error("a decline must not create a review placeholder")
	}

	events := fan.published()
	if len(events) != 2 || events[1].Type != models.NotifyRequestRejected {
		t.Errorf("expected a REQUEST_REJECTED event, got %+v", events)
	}
}

func TestRejectAfterSubmitConflicts(t *testing.T) {
	stg, _, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	if _, err := svc.SubmitEstimate(ctx, req.ID, 200, 100000, "ok"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.RejectEstimate(ctx, req.ID, 200, "changed my mind"); !apperr.IsConflict(err) {
		t.Fatal("one answer per (request, driver): reject after submit must conflict")
	}
}

func TestConfirmEstimateSettlesRequestAndSiblings(t *testing.T) {
	stg, fan, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	winner, _ := svc.SubmitEstimate(ctx, req.ID, 200, 500000, "a")
	loser, _ := svc.SubmitEstimate(ctx, req.ID, 201, 400000, "b")

	got, err := svc.ConfirmEstimate(ctx, winner.ID, 100)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != models.EstimateConfirmed {
		t.Errorf("estimate status %q, want CONFIRMED", got.Status)
	}
	if got.Request.Status != models.RequestConfirmed {
		t.Errorf("request status %q, want CONFIRMED", got.Request.Status)
	}

	pending, _ := stg.Estimate().PendingByRequest(ctx, req.ID)
	if len(pending) != 0 {
		t.Errorf("pending estimates after confirm: %d, want 0", len(pending))
	}
	reloaded, _ := stg.Estimate().GetByID(ctx, loser.ID)
	if reloaded.Status != models.EstimateRejected {
		t.Errorf("sibling status %q, want REJECTED", reloaded.Status)
	}

	events := fan.published()
	last := events[len(events)-1]
	if last.Type != models.NotifyEstimateConfirmed || last.UserID != 200 {
		t.Errorf("confirmation must notify the winning driver, got %+v", last)
	}
}

func TestConfirmEstimateOnlyOneWinner(t *testing.T) {
	stg, _, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	a, _ := svc.SubmitEstimate(ctx, req.ID, 200, 500000, "a")
	b, _ := svc.SubmitEstimate(ctx, req.ID, 201, 400000, "b")

	if _, err := svc.ConfirmEstimate(ctx, a.ID, 100); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := svc.ConfirmEstimate(ctx, b.ID, 100); !apperr.IsConflict(err) {
		t.Fatalf("second confirm: got %v, want conflict", err)
	}

	confirmed := 0
	for _, e := range stg.estimates {
		if e.RequestID == req.ID && e.Status == models.EstimateConfirmed {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Fatalf("confirmed estimates: %d, want exactly 1", confirmed)
	}
}

func TestConfirmEstimateForeignRequester(t *testing.T) {
	stg, _, svc := newMatchEnv(t)
	req := seedRequest(t, stg, 100)
	ctx := context.Background()

	est, _ := svc.SubmitEstimate(ctx, req.ID, 200, 500000, "a")
	if _, err := svc.ConfirmEstimate(ctx, est.ID, 555); !apperr.IsNotFound(err) {
		t.Fatalf("foreign requester: got %v, want not found", err)
	}
}
