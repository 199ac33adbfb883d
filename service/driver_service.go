package service

import (
	"context"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/pkg/paging"
	"movingmatch/storage"
)

type DriverService interface {
	// ListDrivers pages the externally maintained driver_stats aggregate.
	ListDrivers(ctx context.Context, region, serviceType string, sort storage.DriverSort, p paging.Params) ([]*models.DriverSummary, paging.Pagination, error)
}

type driverService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewDriverService(stg storage.IStorage, log logger.ILogger) DriverService {
	return &driverService{stg: stg, log: log}
}

func (s *driverService) ListDrivers(ctx context.Context, region, serviceType string, sort storage.DriverSort, p paging.Params) ([]*models.DriverSummary, paging.Pagination, error) {
	if region != "" && !models.ValidRegion(region) {
		return nil, paging.Pagination{}, apperr.Validation("unknown region")
	}
	if serviceType != "" && !models.ValidMovingType(serviceType) {
		return nil, paging.Pagination{}, apperr.Validation("unknown service type")
	}
	switch sort {
	case "", storage.SortMostReviewed, storage.SortHighestRating, storage.SortMostConfirmed, storage.SortMostFavorited:
	default:
		return nil, paging.Pagination{}, apperr.Validation("unknown sort")
	}

	rows, err := s.stg.Driver().ListSummaries(ctx, storage.DriverListFilter{
		Region:  region,
		Service: serviceType,
		Sort:    sort,
		Cursor:  p.Cursor,
		Limit:   p.Limit,
	})
	if err != nil {
		return nil, paging.Pagination{}, err
	}
	page, pg := paging.Page(rows, p.Limit, func(d *models.DriverSummary) int64 { return d.DriverID })
	return page, pg, nil
}
