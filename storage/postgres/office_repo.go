package postgres

import (
	"context"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type officeRepo struct {
	db  DB
	log logger.ILogger
}

func NewOfficeRepo(db DB, log logger.ILogger) storage.IOfficeStorage {
	return &officeRepo{db: db, log: log}
}

func (r *officeRepo) Get(ctx context.Context, driverID int64) (*models.DriverOffice, error) {
	var o models.DriverOffice
	err := r.db.QueryRow(ctx, `
		SELECT driver_id, sido, sido_english, sigungu, sigungu_english, zone_code, address, address_english, lat, lng, created_at, updated_at
		FROM driver_offices
		WHERE driver_id = $1
	`, driverID).Scan(
		&o.DriverID, &o.Sido, &o.SidoEnglish, &o.Sigungu, &o.SigunguEnglish,
		&o.ZoneCode, &o.Address, &o.AddressEnglish, &o.Lat, &o.Lng, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.log.Error("failed to get driver office", logger.Int64("driver_id", driverID), logger.Error(err))
		return nil, apperr.Internal("get driver office", err)
	}
	return &o, nil
}

func (r *officeRepo) Upsert(ctx context.Context, office *models.DriverOffice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO driver_offices (driver_id, sido, sido_english, sigungu, sigungu_english, zone_code, address, address_english, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (driver_id) DO UPDATE SET
			sido = EXCLUDED.sido,
			sido_english = EXCLUDED.sido_english,
			sigungu = EXCLUDED.sigungu,
			sigungu_english = EXCLUDED.sigungu_english,
			zone_code = EXCLUDED.zone_code,
			address = EXCLUDED.address,
			address_english = EXCLUDED.address_english,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			updated_at = now()
	`,
		office.DriverID, office.Sido, office.SidoEnglish, office.Sigungu, office.SigunguEnglish,
		office.ZoneCode, office.Address, office.AddressEnglish, office.Lat, office.Lng,
	)
	if err != nil {
		r.log.Error("failed to upsert driver office", logger.Int64("driver_id", office.DriverID), logger.Error(err))
		return apperr.Internal("upsert driver office", err)
	}
	return nil
}
