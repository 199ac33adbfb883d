package service

import (
	"context"
	"time"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/pkg/paging"
	"movingmatch/storage"
)

type CreateRequestInput struct {
	MovingType         models.MovingType
	MovingDate         time.Time
	DesignatedDriverID *int64
	From               models.Address
	To                 models.Address
}

type RequestService interface {
	CreateRequest(ctx context.Context, requesterID int64, in CreateRequestInput) (*models.EstimateRequest, error)
	// GetRequest returns (nil, nil) when the id does not exist: detail
	// reads answer with an empty result, not an error.
	GetRequest(ctx context.Context, id int64) (*models.EstimateRequest, error)
	CancelRequest(ctx context.Context, id, requesterID int64) error
	ListReceivedEstimates(ctx context.Context, requesterID int64, p paging.Params) ([]*models.Estimate, paging.Pagination, error)
	ListDriverEstimates(ctx context.Context, driverID int64, status models.EstimateStatus, p paging.Params) ([]*models.Estimate, paging.Pagination, error)
}

type requestService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewRequestService(stg storage.IStorage, log logger.ILogger) RequestService {
	return &requestService{stg: stg, log: log}
}

func (s *requestService) CreateRequest(ctx context.Context, requesterID int64, in CreateRequestInput) (*models.EstimateRequest, error) {
	if !models.ValidMovingType(string(in.MovingType)) {
		return nil, apperr.Validation("unknown moving type")
	}
	if in.MovingDate.IsZero() {
		return nil, apperr.Validation("moving date is required")
	}

	active, err := s.stg.Request().HasActivePending(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperr.Conflict("an active estimate request already exists")
	}

	from := in.From
	from.Type = models.AddressFrom
	to := in.To
	to.Type = models.AddressTo

	req := &models.EstimateRequest{
		RequesterID:        requesterID,
		MovingType:         in.MovingType,
		MovingDate:         in.MovingDate,
		DesignatedDriverID: in.DesignatedDriverID,
		From:               &from,
		To:                 &to,
	}

	// the pre-check above is advisory; the partial unique index on
	// (requester_id) WHERE PENDING closes the race between two creates
	err = s.stg.WithinTx(ctx, func(tx storage.IStorage) error {
		_, err := tx.Request().Create(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) GetRequest(ctx context.Context, id int64) (*models.EstimateRequest, error) {
	return s.stg.Request().GetByID(ctx, id)
}

func (s *requestService) CancelRequest(ctx context.Context, id, requesterID int64) error {
	req, err := s.stg.Request().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil || req.RequesterID != requesterID {
		return apperr.NotFound("estimate request not found")
	}

	ok, err := s.stg.Request().CancelIfPending(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict("estimate request is no longer open")
	}
	return nil
}

func (s *requestService) ListReceivedEstimates(ctx context.Context, requesterID int64, p paging.Params) ([]*models.Estimate, paging.Pagination, error) {
	rows, err := s.stg.Estimate().ListReceived(ctx, requesterID, p.Cursor, p.Limit)
	if err != nil {
		return nil, paging.Pagination{}, err
	}
	page, pg := paging.Page(rows, p.Limit, func(e *models.Estimate) int64 { return e.ID })
	return page, pg, nil
}

func (s *requestService) ListDriverEstimates(ctx context.Context, driverID int64, status models.EstimateStatus, p paging.Params) ([]*models.Estimate, paging.Pagination, error) {
	rows, err := s.stg.Estimate().ListByDriver(ctx, driverID, status, p.Cursor, p.Limit)
	if err != nil {
		return nil, paging.Pagination{}, err
	}
	page, pg := paging.Page(rows, p.Limit, func(e *models.Estimate) int64 { return e.ID })
	return page, pg, nil
}
