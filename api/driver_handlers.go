package api

import (
	"github.com/gin-gonic/gin"

	"movingmatch/pkg/paging"
	"movingmatch/storage"
)

func (s *Server) listDrivers(c *gin.Context) {
	p, err := paging.ParseParams(c.Query("cursor"), c.Query("limit"))
	if err != nil {
		Fail(c, err)
		return
	}

	rows, pg, err := s.svc.Driver().ListDrivers(
		c.Request.Context(),
		c.Query("region"),
		c.Query("service"),
		storage.DriverSort(c.Query("sort")),
		p,
	)
	if err != nil {
		Fail(c, err)
		return
	}
	OKList(c, rows, pg)
}
