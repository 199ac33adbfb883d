package service

import (
	"context"

	"movingmatch/config"
	"movingmatch/pkg/apperr"
	"movingmatch/pkg/geo"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

// SearchService is the driver-facing discovery surface: open requests
// within a radius of the driver's registered office.
type SearchService interface {
	// NearbyRequests runs the two-phase search; radiusKm <= 0 means
	// "use the configured default".
	NearbyRequests(ctx context.Context, driverID int64, radiusKm float64) ([]*models.NearbyRequest, error)
	RegisterOffice(ctx context.Context, office *models.DriverOffice) error
}

type searchService struct {
	stg           storage.IStorage
	defaultRadius float64
	maxRadius     float64
	log           logger.ILogger
}

func NewSearchService(stg storage.IStorage, cfg config.Config, log logger.ILogger) SearchService {
	return &searchService{
		stg:           stg,
		defaultRadius: cfg.NearbyDefaultRadiusKm,
		maxRadius:     cfg.NearbyMaxRadiusKm,
		log:           log,
	}
}

func (s *searchService) NearbyRequests(ctx context.Context, driverID int64, radiusKm float64) ([]*models.NearbyRequest, error) {
	if radiusKm <= 0 {
		radiusKm = s.defaultRadius
	}
	if radiusKm > s.maxRadius {
		return nil, apperr.Validation("radius exceeds the allowed maximum")
	}

	office, err := s.stg.Office().Get(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if office == nil || office.Lat == nil || office.Lng == nil {
		return nil, apperr.Precondition("driver office location is not registered")
	}
	origin := geo.Point{Lat: *office.Lat, Lng: *office.Lng}

	// phase 1: rectangular over-selection in SQL
	rows, err := s.stg.Request().PendingInBox(ctx, geo.BoundingBox(origin, radiusKm))
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.NearbyRequest, len(rows))
	cands := make([]geo.Candidate, 0, len(rows))
	for _, row := range rows {
		byID[row.RequestID] = row
		cands = append(cands, geo.Candidate{
			Point:     geo.Point{Lat: row.From.Lat, Lng: row.From.Lng},
			Ref:       row.RequestID,
			CreatedAt: row.CreatedAt,
		})
	}

	// phase 2: exact haversine cut and deterministic ordering
	matches := geo.Refine(origin, radiusKm, cands)

	out := make([]*models.NearbyRequest, 0, len(matches))
	for _, m := range matches {
		row := byID[m.Ref]
		row.DistanceKm = m.DistanceKm
		out = append(out, row)
	}

	s.log.Debug("nearby search",
		logger.Int64("driver_id", driverID),
		logger.Float64("radius_km", radiusKm),
		logger.Int("candidates", len(rows)),
		logger.Int("matches", len(out)))
	return out, nil
}

func (s *searchService) RegisterOffice(ctx context.Context, office *models.DriverOffice) error {
	if office.Lat == nil || office.Lng == nil {
		return apperr.Validation("office coordinates are required")
	}
	if *office.Lat < -90 || *office.Lat > 90 || *office.Lng < -180 || *office.Lng > 180 {
		return apperr.Validation("office coordinates are out of range")
	}
	return s.stg.Office().Upsert(ctx, office)
}
