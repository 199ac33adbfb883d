package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movingmatch/pkg/logger"
	"movingmatch/pkg/paging"
)

type notificationList struct {
	Data        any               `json:"data"`
	UnreadCount int               `json:"unreadCount"`
	Pagination  paging.Pagination `json:"pagination"`
}

func (s *Server) listNotifications(c *gin.Context) {
	p, err := paging.ParseParams(c.Query("cursor"), c.Query("limit"))
	if err != nil {
		Fail(c, err)
		return
	}
	userID, _ := principal(c)
	rows, unread, pg, err := s.svc.Notification().List(c.Request.Context(), userID, p)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, notificationList{Data: rows, UnreadCount: unread, Pagination: pg})
}

func (s *Server) markNotificationsRead(c *gin.Context) {
	userID, _ := principal(c)
	if err := s.svc.Notification().MarkAllRead(c.Request.Context(), userID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// streamNotifications is the SSE push channel. Missed events are not
// replayed; clients resync unread state via GET /notifications after
// (re)connecting.
func (s *Server) streamNotifications(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		Error(c, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	userID, _ := principal(c)
	ch := s.fan.Register(userID)
	defer s.fan.Unregister(userID, ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(time.Duration(s.cfg.SSEHeartbeatSec) * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()
		case ev, open := <-ch:
			if !open {
				return
			}
			raw, err := json.Marshal(ev)
			if err != nil {
				s.log.Warning("failed to encode sse event", logger.Error(err))
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, raw)
			flusher.Flush()
		}
	}
}
