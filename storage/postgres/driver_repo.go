package postgres

import (
	"context"
	"fmt"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/storage"
)

type driverRepo struct {
	db  DB
	log logger.ILogger
}

func NewDriverRepo(db DB, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

// sortColumn maps the sort enum to its driver_stats column. Callers
// validate the enum at the API edge; an unknown value falls back to
// review_count rather than interpolating unchecked input.
func sortColumn(s storage.DriverSort) string {
	switch s {
	case storage.SortHighestRating:
		return "avg_rating"
	case storage.SortMostConfirmed:
		return "confirmed_count"
	case storage.SortMostFavorited:
		return "favorite_count"
	default:
		return "review_count"
	}
}

func (r *driverRepo) ListSummaries(ctx context.Context, f storage.DriverListFilter) ([]*models.DriverSummary, error) {
	col := sortColumn(f.Sort)

	// ordering is always the 2-tuple (sort column desc, driver_id asc) so
	// ties break deterministically; the keyset predicate compares the
	// same tuple against the cursor row. Sort columns live in a read
	// model refreshed elsewhere, so pages are only consistent with the
	// snapshot each fetch observed.
	query := fmt.Sprintf(`
		SELECT driver_id, nickname, region, service_type, review_count, avg_rating, confirmed_count, favorite_count
		FROM driver_stats
		WHERE ($1 = '' OR region = $1)
		  AND ($2 = '' OR service_type = $2)
		  -- negated driver_id flips the tuple comparison to "id ascending
		  -- within equal sort values"
		  AND ($3::bigint IS NULL OR (%[1]s, driver_id * -1) <
		       (SELECT c.%[1]s, c.driver_id * -1 FROM driver_stats c WHERE c.driver_id = $3))
		ORDER BY %[1]s DESC, driver_id ASC
		LIMIT $4
	`, col)

	rows, err := r.db.Query(ctx, query, f.Region, f.Service, f.Cursor, f.Limit+1)
	if err != nil {
		r.log.Error("failed to query driver summaries", logger.Error(err))
		return nil, apperr.Internal("query driver summaries", err)
	}
	defer rows.Close()

	var out []*models.DriverSummary
	for rows.Next() {
		var d models.DriverSummary
		err := rows.Scan(
			&d.DriverID, &d.Nickname, &d.Region, &d.ServiceType,
			&d.ReviewCount, &d.AvgRating, &d.ConfirmedCount, &d.FavoriteCount,
		)
		if err != nil {
			return nil, apperr.Internal("scan driver summary", err)
		}
		out = append(out, &d)
	}
	return out, nil
}
