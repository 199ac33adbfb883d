package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"movingmatch/pkg/models"
	"movingmatch/pkg/paging"
	"movingmatch/service"
)

type addressBody struct {
	Sido           string  `json:"sido" binding:"required"`
	SidoEnglish    string  `json:"sidoEnglish"`
	Sigungu        string  `json:"sigungu" binding:"required"`
	SigunguEnglish string  `json:"sigunguEnglish"`
	ZoneCode       string  `json:"zoneCode" binding:"required"`
	Address        string  `json:"address" binding:"required"`
	AddressEnglish string  `json:"addressEnglish"`
	Lat            float64 `json:"lat" binding:"required"`
	Lng            float64 `json:"lng" binding:"required"`
}

func (b addressBody) toModel() models.Address {
	return models.Address{
		Sido:           b.Sido,
		SidoEnglish:    b.SidoEnglish,
		Sigungu:        b.Sigungu,
		SigunguEnglish: b.SigunguEnglish,
		ZoneCode:       b.ZoneCode,
		Address:        b.Address,
		AddressEnglish: b.AddressEnglish,
		Lat:            b.Lat,
		Lng:            b.Lng,
	}
}

type createRequestBody struct {
	MovingType         string      `json:"movingType" binding:"required"`
	MovingDate         string      `json:"movingDate" binding:"required"` // ISO-8601
	DesignatedDriverID *int64      `json:"designatedDriverId"`
	From               addressBody `json:"from" binding:"required"`
	To                 addressBody `json:"to" binding:"required"`
}

func (s *Server) createRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	movingDate, err := time.Parse(time.RFC3339, body.MovingDate)
	if err != nil {
		Error(c, http.StatusBadRequest, "movingDate must be ISO-8601")
		return
	}

	userID, _ := principal(c)
	req, err := s.svc.Request().CreateRequest(c.Request.Context(), userID, service.CreateRequestInput{
		MovingType:         models.MovingType(body.MovingType),
		MovingDate:         movingDate,
		DesignatedDriverID: body.DesignatedDriverID,
		From:               body.From.toModel(),
		To:                 body.To.toModel(),
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusCreated, "estimate request created", req)
}

func (s *Server) getRequest(c *gin.Context) {
	id, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid id")
		return
	}
	// absence is a successful null result, not a 404
	req, err := s.svc.Request().GetRequest(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, req)
}

func (s *Server) cancelRequest(c *gin.Context) {
	id, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid id")
		return
	}
	userID, _ := principal(c)
	if err := s.svc.Request().CancelRequest(c.Request.Context(), id, userID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (s *Server) nearbyRequests(c *gin.Context) {
	radiusKm := 0.0
	if raw := c.Query("radiusKm"); raw != "" {
		v, err := cast.ToFloat64E(raw)
		if err != nil || v < 0 || v > s.cfg.NearbyMaxRadiusKm {
			Error(c, http.StatusBadRequest, "radiusKm must be in [0,200]")
			return
		}
		radiusKm = v
	}

	driverID, _ := principal(c)
	out, err := s.svc.Search().NearbyRequests(c.Request.Context(), driverID, radiusKm)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, out)
}

func (s *Server) listReceivedEstimates(c *gin.Context) {
	p, err := paging.ParseParams(c.Query("cursor"), c.Query("limit"))
	if err != nil {
		Fail(c, err)
		return
	}
	userID, _ := principal(c)
	rows, pg, err := s.svc.Request().ListReceivedEstimates(c.Request.Context(), userID, p)
	if err != nil {
		Fail(c, err)
		return
	}
	OKList(c, rows, pg)
}

func (s *Server) listDriverEstimates(c *gin.Context) {
	p, err := paging.ParseParams(c.Query("cursor"), c.Query("limit"))
	if err != nil {
		Fail(c, err)
		return
	}
	status := models.EstimateStatus(c.DefaultQuery("status", string(models.EstimateConfirmed)))
	if status != models.EstimateConfirmed && status != models.EstimateRejected {
		Error(c, http.StatusBadRequest, "status must be CONFIRMED or REJECTED")
		return
	}

	driverID, _ := principal(c)
	rows, pg, err := s.svc.Request().ListDriverEstimates(c.Request.Context(), driverID, status, p)
	if err != nil {
		Fail(c, err)
		return
	}
	OKList(c, rows, pg)
}
