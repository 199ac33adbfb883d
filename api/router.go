package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"movingmatch/config"
	"movingmatch/pkg/logger"
	"movingmatch/pkg/models"
	"movingmatch/pkg/notify"
	"movingmatch/service"
)

type Server struct {
	svc service.IServiceManager
	fan notify.Fanout
	cfg config.Config
	log logger.ILogger
}

func NewRouter(svc service.IServiceManager, fan notify.Fanout, cfg config.Config, log logger.ILogger) *gin.Engine {
	s := &Server{svc: svc, fan: fan, cfg: cfg, log: log}

	if cfg.LoggerLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/", requirePrincipal())

	requests := auth.Group("/requests")
	{
		requests.POST("", requireRole(models.RoleUser), s.createRequest)
		requests.GET("/nearby", requireRole(models.RoleDriver), s.nearbyRequests)
		requests.GET("/:id", s.getRequest)
		requests.DELETE("/:id", requireRole(models.RoleUser), s.cancelRequest)
		requests.POST("/:id/estimates", requireRole(models.RoleDriver), s.submitEstimate)
		requests.POST("/:id/estimates/reject", requireRole(models.RoleDriver), s.rejectEstimate)
	}

	estimates := auth.Group("/estimates")
	{
		estimates.GET("/received", requireRole(models.RoleUser), s.listReceivedEstimates)
		estimates.GET("/mine", requireRole(models.RoleDriver), s.listDriverEstimates)
		estimates.POST("/:id/confirm", requireRole(models.RoleUser), s.confirmEstimate)
		estimates.POST("/:id/review", requireRole(models.RoleUser), s.writeReview)
	}

	drivers := auth.Group("/drivers")
	{
		drivers.GET("", s.listDrivers)
		drivers.GET("/:id/reviews", s.listDriverReviews)
		drivers.PUT("/me/office", requireRole(models.RoleDriver), s.registerOffice)
	}

	notifications := auth.Group("/notifications")
	{
		notifications.GET("", s.listNotifications)
		notifications.POST("/read", s.markNotificationsRead)
		notifications.GET("/stream", s.streamNotifications)
	}

	return r
}
