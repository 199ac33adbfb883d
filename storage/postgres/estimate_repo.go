package postgres

import (
	"context"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type estimateRepo struct {
	db  DB
	log logger.ILogger
}

func NewEstimateRepo(db DB, log logger.ILogger) storage.IEstimateStorage {
	return &estimateRepo{db: db, log: log}
}

const estimateColumns = `e.id, e.request_id, e.driver_id, e.price, e.comment, e.reject_reason, e.status, e.soft_deleted, e.created_at, e.updated_at`

func (r *estimateRepo) Create(ctx context.Context, est *models.Estimate) (*models.Estimate, error) {
	query := `
		INSERT INTO estimates (request_id, driver_id, price, comment, reject_reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		est.RequestID,
		est.DriverID,
		est.Price,
		est.Comment,
		est.RejectReason,
		est.Status,
	).Scan(&est.ID, &est.CreatedAt, &est.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// unique (request_id, driver_id): the loser of a concurrent
			// double submission lands here deterministically
			return nil, apperr.Conflict("already submitted an estimate for this request")
		}
		r.log.Error("failed to create estimate", logger.Error(err))
		return nil, apperr.Internal("create estimate", err)
	}
	return est, nil
}

func (r *estimateRepo) GetByID(ctx context.Context, id int64) (*models.Estimate, error) {
	var e models.Estimate
	var req models.EstimateRequest
	query := `
		SELECT ` + estimateColumns + `,
		       r.id, r.requester_id, r.moving_type, r.moving_date, r.status, r.created_at
		FROM estimates e
		JOIN estimate_requests r ON r.id = e.request_id
		WHERE e.id = $1 AND NOT e.soft_deleted
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.RequestID, &e.DriverID, &e.Price, &e.Comment, &e.RejectReason,
		&e.Status, &e.SoftDeleted, &e.CreatedAt, &e.UpdatedAt,
		&req.ID, &req.RequesterID, &req.MovingType, &req.MovingDate, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.log.Error("failed to get estimate", logger.Int64("id", id), logger.Error(err))
		return nil, apperr.Internal("get estimate", err)
	}
	e.Request = &req
	return &e, nil
}

func (r *estimateRepo) ExistsFor(ctx context.Context, requestID, driverID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM estimates WHERE request_id = $1 AND driver_id = $2)`
	if err := r.db.QueryRow(ctx, query, requestID, driverID).Scan(&exists); err != nil {
		r.log.Error("failed to check estimate existence", logger.Error(err))
		return false, apperr.Internal("check estimate existence", err)
	}
	return exists, nil
}

func (r *estimateRepo) Confirm(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE estimates
		SET status = 'CONFIRMED', updated_at = now()
		WHERE id = $1 AND status = 'PENDING' AND NOT soft_deleted
	`, id)
	if err != nil {
		r.log.Error("failed to confirm estimate", logger.Int64("id", id), logger.Error(err))
		return false, apperr.Internal("confirm estimate", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *estimateRepo) RejectSiblings(ctx context.Context, requestID, keepID int64) (int64, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE estimates
		SET status = 'REJECTED', updated_at = now()
		WHERE request_id = $1 AND id <> $2 AND status = 'PENDING'
	`, requestID, keepID)
	if err != nil {
		r.log.Error("failed to reject sibling estimates", logger.Int64("request_id", requestID), logger.Error(err))
		return 0, apperr.Internal("reject sibling estimates", err)
	}
	return res.RowsAffected(), nil
}

func (r *estimateRepo) PendingByRequest(ctx context.Context, requestID int64) ([]*models.Estimate, error) {
	query := `
		SELECT ` + estimateColumns + `
		FROM estimates e
		WHERE e.request_id = $1 AND e.status = 'PENDING' AND NOT e.soft_deleted
		ORDER BY e.created_at ASC, e.id ASC
	`
	return r.scanEstimates(ctx, query, requestID)
}

func (r *estimateRepo) ListReceived(ctx context.Context, requesterID int64, cursor *int64, limit int) ([]*models.Estimate, error) {
	// keyset on (created_at desc, id desc); the cursor row's keys are
	// looked up in the same statement so the row itself is skipped
	query := `
		SELECT ` + estimateColumns + `
		FROM estimates e
		JOIN estimate_requests r ON r.id = e.request_id
		WHERE r.requester_id = $1 AND NOT e.soft_deleted
		  AND ($2::bigint IS NULL OR (e.created_at, e.id) <
		       (SELECT c.created_at, c.id FROM estimates c WHERE c.id = $2))
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $3
	`
	return r.scanEstimates(ctx, query, requesterID, cursor, limit+1)
}

func (r *estimateRepo) ListByDriver(ctx context.Context, driverID int64, status models.EstimateStatus, cursor *int64, limit int) ([]*models.Estimate, error) {
	query := `
		SELECT ` + estimateColumns + `
		FROM estimates e
		WHERE e.driver_id = $1 AND e.status = $2 AND NOT e.soft_deleted
		  AND ($3::bigint IS NULL OR (e.created_at, e.id) <
		       (SELECT c.created_at, c.id FROM estimates c WHERE c.id = $3))
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $4
	`
	return r.scanEstimates(ctx, query, driverID, status, cursor, limit+1)
}

func (r *estimateRepo) scanEstimates(ctx context.Context, query string, args ...interface{}) ([]*models.Estimate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to query estimates", logger.Error(err))
		return nil, apperr.Internal("query estimates", err)
	}
	defer rows.Close()

	var estimates []*models.Estimate
	for rows.Next() {
		var e models.Estimate
		err := rows.Scan(
			&e.ID, &e.RequestID, &e.DriverID, &e.Price, &e.Comment, &e.RejectReason,
			&e.Status, &e.SoftDeleted, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.Internal("scan estimate", err)
		}
		estimates = append(estimates, &e)
	}
	return estimates, nil
}
