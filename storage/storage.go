package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"movingmatch/pkg/geo"
	"movingmatch/pkg/models"
)

type IStorage interface {
	Request() IRequestStorage
	Estimate() IEstimateStorage
	Review() IReviewStorage
	Office() IOfficeStorage
	Driver() IDriverStorage
	Notification() INotificationStorage
	Audit() IAuditStorage

	// WithinTx runs fn against a view of the store where every repo call
	// shares one transaction; fn returning an error rolls it back.
	WithinTx(ctx context.Context, fn func(IStorage) error) error

	Close()
	GetPool() *pgxpool.Pool
}

type IRequestStorage interface {
	// Create inserts the request and its two addresses (req.From, req.To).
	Create(ctx context.Context, req *models.EstimateRequest) (*models.EstimateRequest, error)
	// GetByID returns (nil, nil) when no such request exists.
	GetByID(ctx context.Context, id int64) (*models.EstimateRequest, error)
	HasActivePending(ctx context.Context, requesterID int64) (bool, error)
	// ConfirmIfPending is the compare-and-set guard of the confirm path:
	// PENDING -> CONFIRMED, reporting whether a row changed.
	ConfirmIfPending(ctx context.Context, id int64) (bool, error)
	// CancelIfPending soft-deletes and marks CANCELLED, only while PENDING
	// and owned by requesterID.
	CancelIfPending(ctx context.Context, id, requesterID int64) (bool, error)
	// PendingInBox returns FROM-address rows of open, non-deleted requests
	// whose coordinates fall inside box (the approximate phase).
	PendingInBox(ctx context.Context, box geo.Box) ([]*models.NearbyRequest, error)
}

type IEstimateStorage interface {
	Create(ctx context.Context, est *models.Estimate) (*models.Estimate, error)
	GetByID(ctx context.Context, id int64) (*models.Estimate, error)
	ExistsFor(ctx context.Context, requestID, driverID int64) (bool, error)
	// Confirm moves the estimate PENDING -> CONFIRMED, reporting whether
	// a row changed.
	Confirm(ctx context.Context, id int64) (bool, error)
	// RejectSiblings rejects every other PENDING estimate of the request.
	RejectSiblings(ctx context.Context, requestID, keepID int64) (int64, error)
	PendingByRequest(ctx context.Context, requestID int64) ([]*models.Estimate, error)
	// ListReceived pages estimates on the requester's requests,
	// newest first; fetches limit+1 rows past the cursor.
	ListReceived(ctx context.Context, requesterID int64, cursor *int64, limit int) ([]*models.Estimate, error)
	ListByDriver(ctx context.Context, driverID int64, status models.EstimateStatus, cursor *int64, limit int) ([]*models.Estimate, error)
}

type IReviewStorage interface {
	CreatePlaceholder(ctx context.Context, estimateID, authorID int64) error
	GetByEstimate(ctx context.Context, estimateID int64) (*models.Review, error)
	// FillIn writes rating/content once; false when the placeholder is
	// absent, foreign, or already written.
	FillIn(ctx context.Context, estimateID, authorID int64, rating int, content string) (bool, error)
	// ListWrittenByDriver pages filled-in reviews of the driver's estimates.
	ListWrittenByDriver(ctx context.Context, driverID int64, cursor *int64, limit int) ([]*models.Review, error)
}

type IOfficeStorage interface {
	Get(ctx context.Context, driverID int64) (*models.DriverOffice, error)
	Upsert(ctx context.Context, office *models.DriverOffice) error
}

type DriverSort string

const (
	SortMostReviewed  DriverSort = "MOST_REVIEWED"
	SortHighestRating DriverSort = "HIGHEST_RATING"
	SortMostConfirmed DriverSort = "MOST_CONFIRMED"
	SortMostFavorited DriverSort = "MOST_FAVORITED"
)

type DriverListFilter struct {
	Region  string
	Service string
	Sort    DriverSort
	Cursor  *int64
	Limit   int
}

type IDriverStorage interface {
	// ListSummaries pages the driver_stats aggregate ordered by
	// (sort field desc, driver_id asc). Sort fields come from a
	// separately refreshed read model, so ordering is only consistent
	// with the snapshot each fetch observed.
	ListSummaries(ctx context.Context, f DriverListFilter) ([]*models.DriverSummary, error)
}

type INotificationStorage interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, cursor *int64, limit int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type IAuditStorage interface {
	Record(ctx context.Context, actorID int64, action, entity string, entityID int64, at time.Time) error
}
