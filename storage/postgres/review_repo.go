package postgres

import (
	"context"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type reviewRepo struct {
	db  DB
	log logger.ILogger
}

func NewReviewRepo(db DB, log logger.ILogger) storage.IReviewStorage {
	return &reviewRepo{db: db, log: log}
}

func (r *reviewRepo) CreatePlaceholder(ctx context.Context, estimateID, authorID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (estimate_id, authored_by_user_id, rating, content)
		VALUES ($1, $2, NULL, NULL)
	`, estimateID, authorID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("review placeholder already exists")
		}
		r.log.Error("failed to create review placeholder", logger.Error(err))
		return apperr.Internal("create review placeholder", err)
	}
	return nil
}

func (r *reviewRepo) GetByEstimate(ctx context.Context, estimateID int64) (*models.Review, error) {
	var rv models.Review
	err := r.db.QueryRow(ctx, `
		SELECT id, estimate_id, authored_by_user_id, rating, content, created_at, updated_at
		FROM reviews
		WHERE estimate_id = $1
	`, estimateID).Scan(
		&rv.ID, &rv.EstimateID, &rv.AuthoredByUserID, &rv.Rating, &rv.Content, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.log.Error("failed to get review", logger.Int64("estimate_id", estimateID), logger.Error(err))
		return nil, apperr.Internal("get review", err)
	}
	return &rv, nil
}

func (r *reviewRepo) FillIn(ctx context.Context, estimateID, authorID int64, rating int, content string) (bool, error) {
	// rating IS NULL: a review is write-once, the second write matches no row
	res, err := r.db.Exec(ctx, `
		UPDATE reviews
		SET rating = $3, content = $4, updated_at = now()
		WHERE estimate_id = $1 AND authored_by_user_id = $2 AND rating IS NULL
	`, estimateID, authorID, rating, content)
	if err != nil {
		r.log.Error("failed to fill in review", logger.Int64("estimate_id", estimateID), logger.Error(err))
		return false, apperr.Internal("fill in review", err)
	}
	return res.RowsAffected() > 0, nil
}

func (r *reviewRepo) ListWrittenByDriver(ctx context.Context, driverID int64, cursor *int64, limit int) ([]*models.Review, error) {
	query := `
		SELECT v.id, v.estimate_id, v.authored_by_user_id, v.rating, v.content, v.created_at, v.updated_at
		FROM reviews v
		JOIN estimates e ON e.id = v.estimate_id
		WHERE e.driver_id = $1 AND v.rating IS NOT NULL
		  AND ($2::bigint IS NULL OR (v.updated_at, v.id) <
		       (SELECT c.updated_at, c.id FROM reviews c WHERE c.id = $2))
		ORDER BY v.updated_at DESC, v.id DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, driverID, cursor, limit+1)
	if err != nil {
		r.log.Error("failed to query driver reviews", logger.Error(err))
		return nil, apperr.Internal("query driver reviews", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var rv models.Review
		err := rows.Scan(&rv.ID, &rv.EstimateID, &rv.AuthoredByUserID, &rv.Rating, &rv.Content, &rv.CreatedAt, &rv.UpdatedAt)
		if err != nil {
			return nil, apperr.Internal("scan review", err)
		}
		reviews = append(reviews, &rv)
	}
	return reviews, nil
}
