package service

import (
	"movingmatch/config"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/notify"
	"movingmatch/storage"
)

type IServiceManager interface {
	Match() MatchService
	Request() RequestService
	Search() SearchService
	Review() ReviewService
	Driver() DriverService
	Notification() NotificationService
}

type service struct {
	matchService        MatchService
	requestService      RequestService
	searchService       SearchService
	reviewService       ReviewService
	driverService       DriverService
	notificationService NotificationService
}

func New(stg storage.IStorage, fan notify.Fanout, cfg config.Config, log logger.ILogger) IServiceManager {
	return &service{
		matchService:        NewMatchService(stg, fan, log),
		requestService:      NewRequestService(stg, log),
		searchService:       NewSearchService(stg, cfg, log),
		reviewService:       NewReviewService(stg, log),
		driverService:       NewDriverService(stg, log),
		notificationService: NewNotificationService(stg, log),
	}
}

func (s *service) Match() MatchService               { return s.matchService }
func (s *service) Request() RequestService           { return s.requestService }
func (s *service) Search() SearchService             { return s.searchService }
func (s *service) Review() ReviewService             { return s.reviewService }
func (s *service) Driver() DriverService             { return s.driverService }
func (s *service) Notification() NotificationService { return s.notificationService }
