package postgres

import (
	"context"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/geo"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type requestRepo struct {
	db  DB
	log logger.ILogger
}

func NewRequestRepo(db DB, log logger.ILogger) storage.IRequestStorage {
	return &requestRepo{db: db, log: log}
}

func (r *requestRepo) Create(ctx context.Context, req *models.EstimateRequest) (*models.EstimateRequest, error) {
	query := `
		INSERT INTO estimate_requests (requester_id, moving_type, moving_date, designated_driver_id, status)
		VALUES ($1, $2, $3, $4, 'PENDING')
		RETURNING id, status, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		req.RequesterID,
		req.MovingType,
		req.MovingDate,
		req.DesignatedDriverID,
	).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// partial unique index: one PENDING non-deleted request per requester
			return nil, apperr.Conflict("an active estimate request already exists")
		}
		r.log.Error("failed to create estimate request", logger.Error(err))
		return nil, apperr.Internal("create estimate request", err)
	}

	for _, addr := range []*models.Address{req.From, req.To} {
		if err := r.insertAddress(ctx, req.ID, addr); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (r *requestRepo) insertAddress(ctx context.Context, requestID int64, addr *models.Address) error {
	query := `
		INSERT INTO addresses (request_id, type, sido, sido_english, sigungu, sigungu_english, zone_code, address, address_english, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	addr.RequestID = requestID
	err := r.db.QueryRow(ctx, query,
		requestID,
		addr.Type,
		addr.Sido,
		addr.SidoEnglish,
		addr.Sigungu,
		addr.SigunguEnglish,
		addr.ZoneCode,
		addr.Address,
		addr.AddressEnglish,
		addr.Lat,
		addr.Lng,
	).Scan(&addr.ID)

	if err != nil {
		r.log.Error("failed to create address", logger.Error(err))
		return apperr.Internal("create address", err)
	}
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id int64) (*models.EstimateRequest, error) {
	var req models.EstimateRequest
	query := `
		SELECT id, requester_id, moving_type, moving_date, designated_driver_id, status, soft_deleted, created_at, updated_at
		FROM estimate_requests
		WHERE id = $1 AND NOT soft_deleted
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.RequesterID,
		&req.MovingType,
		&req.MovingDate,
		&req.DesignatedDriverID,
		&req.Status,
		&req.SoftDeleted,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.log.Error("failed to get estimate request", logger.Int64("id", id), logger.Error(err))
		return nil, apperr.Internal("get estimate request", err)
	}

	addrQuery := `
		SELECT id, request_id, type, sido, sido_english, sigungu, sigungu_english, zone_code, address, address_english, lat, lng
		FROM addresses
		WHERE request_id = $1
	`
	rows, err := r.db.Query(ctx, addrQuery, id)
	if err != nil {
		return nil, apperr.Internal("get request addresses", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Address
		err := rows.Scan(
			&a.ID, &a.RequestID, &a.Type, &a.Sido, &a.SidoEnglish, &a.Sigungu,
			&a.SigunguEnglish, &a.ZoneCode, &a.Address, &a.AddressEnglish, &a.Lat, &a.Lng,
		)
		if err != nil {
			return nil, apperr.Internal("scan address", err)
		}
		switch a.Type {
		case models.AddressFrom:
			from := a
			req.From = &from
		case models.AddressTo:
			to := a
			req.To = &to
		}
	}
	return &req, nil
}

func (r *requestRepo) HasActivePending(ctx context.Context, requesterID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM estimate_requests
			WHERE requester_id = $1 AND status = 'PENDING' AND NOT soft_deleted
		)
	`
	if err := r.db.QueryRow(ctx, query, requesterID).Scan(&exists); err != nil {
		r.log.Error("failed to check active request", logger.Error(err))
		return false, apperr.Internal("check active request", err)
	}
	return exists, nil
}

func (r *requestRepo) ConfirmIfPending(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE estimate_requests
		SET status = 'CONFIRMED', updated_at = now()
		WHERE id = $1 AND status = 'PENDING' AND NOT soft_deleted
	`, id)
	if err != nil {
		r.log.Error("failed to confirm request", logger.Int64("id", id), logger.Error(err))
		return false, apperr.Internal("confirm request", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *requestRepo) CancelIfPending(ctx context.Context, id, requesterID int64) (bool, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE estimate_requests
		SET status = 'CANCELLED', soft_deleted = true, updated_at = now()
		WHERE id = $1 AND requester_id = $2 AND status = 'PENDING' AND NOT soft_deleted
	`, id, requesterID)
	if err != nil {
		r.log.Error("failed to cancel request", logger.Int64("id", id), logger.Error(err))
		return false, apperr.Internal("cancel request", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *requestRepo) PendingInBox(ctx context.Context, box geo.Box) ([]*models.NearbyRequest, error) {
	query := `
		SELECT r.id, r.moving_type, r.moving_date, r.created_at,
		       a.id, a.request_id, a.type, a.sido, a.sido_english, a.sigungu, a.sigungu_english,
		       a.zone_code, a.address, a.address_english, a.lat, a.lng
		FROM estimate_requests r
		JOIN addresses a ON a.request_id = r.id AND a.type = 'FROM'
		WHERE r.status = 'PENDING' AND NOT r.soft_deleted
		  AND a.lat BETWEEN $1 AND $2
		  AND a.lng BETWEEN $3 AND $4
	`
	rows, err := r.db.Query(ctx, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		r.log.Error("failed to query pending requests in box", logger.Error(err))
		return nil, apperr.Internal("nearby prefilter", err)
	}
	defer rows.Close()

	var out []*models.NearbyRequest
	for rows.Next() {
		var n models.NearbyRequest
		err := rows.Scan(
			&n.RequestID, &n.MovingType, &n.MovingDate, &n.CreatedAt,
			&n.From.ID, &n.From.RequestID, &n.From.Type, &n.From.Sido, &n.From.SidoEnglish,
			&n.From.Sigungu, &n.From.SigunguEnglish, &n.From.ZoneCode, &n.From.Address,
			&n.From.AddressEnglish, &n.From.Lat, &n.From.Lng,
		)
		if err != nil {
			return nil, apperr.Internal("scan nearby candidate", err)
		}
		out = append(out, &n)
	}
	return out, nil
}
