package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/pkg/notify"
	"movingmatch/storage"
)

// MatchService is the coordinator of the estimate-matching lifecycle:
// a driver bids or declines against a request, the requester confirms
// exactly one bid.
type MatchService interface {
	SubmitEstimate(ctx context.Context, requestID, driverID int64, price int, comment string) (*models.Estimate, error)
	RejectEstimate(ctx context.Context, requestID, driverID int64, rejectReason string) (*models.Estimate, error)
	ConfirmEstimate(ctx context.Context, estimateID, requesterID int64) (*models.Estimate, error)
}

type matchService struct {
	stg storage.IStorage
	fan notify.Fanout
	log logger.ILogger
}

func NewMatchService(stg storage.IStorage, fan notify.Fanout, log logger.ILogger) MatchService {
	return &matchService{stg: stg, fan: fan, log: log}
}

func (s *matchService) SubmitEstimate(ctx context.Context, requestID, driverID int64, price int, comment string) (*models.Estimate, error) {
	if price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}
	if comment == "" {
		return nil, apperr.Validation("comment must not be empty")
	}

	req, err := s.openRequest(ctx, requestID, driverID)
	if err != nil {
		return nil, err
	}

	est := &models.Estimate{
		RequestID: requestID,
		DriverID:  driverID,
		Price:     &price,
		Comment:   &comment,
		Status:    models.EstimatePending,
	}
	event := newEvent(req.RequesterID, models.NotifyEstimateReceived, map[string]any{
		"request_id": requestID,
		"driver_id":  driverID,
		"price":      price,
	})

	err = s.stg.WithinTx(ctx, func(tx storage.IStorage) error {
		if _, err := tx.Estimate().Create(ctx, est); err != nil {
			return err
		}
		if err := tx.Review().CreatePlaceholder(ctx, est.ID, req.RequesterID); err != nil {
			return err
		}
		if err := tx.Audit().Record(ctx, driverID, "estimate.submit", "estimate", est.ID, time.Now()); err != nil {
			return err
		}
		return tx.Notification().Create(ctx, event.record())
	})
	if err != nil {
		return nil, err
	}

	s.fan.Publish(ctx, event.Event)
	return est, nil
}

func (s *matchService) RejectEstimate(ctx context.Context, requestID, driverID int64, rejectReason string) (*models.Estimate, error) {
	if rejectReason == "" {
		return nil, apperr.Validation("reject reason must not be empty")
	}

	req, err := s.openRequest(ctx, requestID, driverID)
	if err != nil {
		return nil, err
	}

	// a decline is stored as a REJECTED estimate; the request itself
	// stays PENDING and other drivers' bids remain open
	est := &models.Estimate{
		RequestID:    requestID,
		DriverID:     driverID,
		RejectReason: &rejectReason,
		Status:       models.EstimateRejected,
	}
	event := newEvent(req.RequesterID, models.NotifyRequestRejected, map[string]any{
		"request_id": requestID,
		"driver_id":  driverID,
	})

	err = s.stg.WithinTx(ctx, func(tx storage.IStorage) error {
		if _, err := tx.Estimate().Create(ctx, est); err != nil {
			return err
		}
		return tx.Notification().Create(ctx, event.record())
	})
	if err != nil {
		return nil, err
	}

	s.fan.Publish(ctx, event.Event)
	return est, nil
}

// openRequest loads the request and applies the shared preconditions of
// submit and reject: it exists, is still open, and the driver has not
// already answered it.
func (s *matchService) openRequest(ctx context.Context, requestID, driverID int64) (*models.EstimateRequest, error) {
	req, err := s.stg.Request().GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("estimate request not found")
	}
	if req.Status != models.RequestPending {
		return nil, apperr.Conflict("estimate request is no longer open")
	}

	exists, err := s.stg.Estimate().ExistsFor(ctx, requestID, driverID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("already submitted an estimate for this request")
	}
	return req, nil
}

func (s *matchService) ConfirmEstimate(ctx context.Context, estimateID, requesterID int64) (*models.Estimate, error) {
	est, err := s.stg.Estimate().GetByID(ctx, estimateID)
	if err != nil {
		return nil, err
	}
	if est == nil || est.Request == nil || est.Request.RequesterID != requesterID {
		return nil, apperr.NotFound("estimate not found")
	}
	if est.Status != models.EstimatePending {
		return nil, apperr.Conflict("estimate is not pending")
	}

	event := newEvent(est.DriverID, models.NotifyEstimateConfirmed, map[string]any{
		"request_id":  est.RequestID,
		"estimate_id": est.ID,
	})

	err = s.stg.WithinTx(ctx, func(tx storage.IStorage) error {
		// compare-and-set on the parent request: exactly one estimate
		// per request can ever win this update
		ok, err := tx.Request().ConfirmIfPending(ctx, est.RequestID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("estimate request already settled")
		}

		ok, err = tx.Estimate().Confirm(ctx, estimateID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("estimate is not pending")
		}

		rejected, err := tx.Estimate().RejectSiblings(ctx, est.RequestID, estimateID)
		if err != nil {
			return err
		}
		if rejected > 0 {
			s.log.Info("rejected sibling estimates on confirm",
				logger.Int64("request_id", est.RequestID),
				logger.Int64("count", rejected))
		}
		return tx.Notification().Create(ctx, event.record())
	})
	if err != nil {
		return nil, err
	}

	s.fan.Publish(ctx, event.Event)

	est.Status = models.EstimateConfirmed
	est.Request.Status = models.RequestConfirmed
	return est, nil
}

// fanEvent pairs the push event with its persisted row so both carry
// the same id and payload.
type fanEvent struct {
	notify.Event
}

func newEvent(userID int64, typ models.NotificationType, payload map[string]any) fanEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	return fanEvent{Event: notify.Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Payload:   string(raw),
		CreatedAt: time.Now(),
	}}
}

func (e fanEvent) record() *models.Notification {
	return &models.Notification{
		ID:      e.Event.ID,
		UserID:  e.Event.UserID,
		Type:    e.Event.Type,
		Payload: e.Event.Payload,
	}
}
