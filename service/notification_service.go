package service

import (
	"context"

	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/pkg/paging"
	"movingmatch/storage"
)

type NotificationService interface {
	// List returns the user's notifications (newest first) plus the
	// unread count, so a reconnecting client can resync without replay.
	List(ctx context.Context, userID int64, p paging.Params) ([]*models.Notification, int, paging.Pagination, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type notificationService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewNotificationService(stg storage.IStorage, log logger.ILogger) NotificationService {
	return &notificationService{stg: stg, log: log}
}

func (s *notificationService) List(ctx context.Context, userID int64, p paging.Params) ([]*models.Notification, int, paging.Pagination, error) {
	rows, err := s.stg.Notification().ListByUser(ctx, userID, p.Cursor, p.Limit)
	if err != nil {
		return nil, 0, paging.Pagination{}, err
	}
	unread, err := s.stg.Notification().UnreadCount(ctx, userID)
	if err != nil {
		return nil, 0, paging.Pagination{}, err
	}
	page, pg := paging.Page(rows, p.Limit, func(n *models.Notification) int64 { return n.Seq })
	return page, unread, pg, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.stg.Notification().MarkAllRead(ctx, userID)
}
