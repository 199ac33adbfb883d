package service

import (
	"context"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/pkg/paging"
	"movingmatch/storage"
)

type ReviewService interface {
	// WriteReview fills the placeholder created at bid-submission time.
	// Write-once: a second write fails with a conflict.
	WriteReview(ctx context.Context, estimateID, requesterID int64, rating int, content string) (*models.Review, error)
	ListDriverReviews(ctx context.Context, driverID int64, p paging.Params) ([]*models.Review, paging.Pagination, error)
}

type reviewService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewReviewService(stg storage.IStorage, log logger.ILogger) ReviewService {
	return &reviewService{stg: stg, log: log}
}

func (s *reviewService) WriteReview(ctx context.Context, estimateID, requesterID int64, rating int, content string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be in [1,5]")
	}
	if content == "" {
		return nil, apperr.Validation("content must not be empty")
	}

	rv, err := s.stg.Review().GetByEstimate(ctx, estimateID)
	if err != nil {
		return nil, err
	}
	if rv == nil || rv.AuthoredByUserID != requesterID {
		return nil, apperr.NotFound("review not found")
	}
	if rv.Written() {
		return nil, apperr.Conflict("review already written")
	}

	ok, err := s.stg.Review().FillIn(ctx, estimateID, requesterID, rating, content)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a concurrent write of the same review
		return nil, apperr.Conflict("review already written")
	}

	return s.stg.Review().GetByEstimate(ctx, estimateID)
}

func (s *reviewService) ListDriverReviews(ctx context.Context, driverID int64, p paging.Params) ([]*models.Review, paging.Pagination, error) {
	rows, err := s.stg.Review().ListWrittenByDriver(ctx, driverID, p.Cursor, p.Limit)
	if err != nil {
		return nil, paging.Pagination{}, err
	}
	page, pg := paging.Page(rows, p.Limit, func(r *models.Review) int64 { return r.ID })
	return page, pg, nil
}
