package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"movingmatch/pkg/models"
	"movingmatch/pkg/paging"
)

type submitEstimateBody struct {
	Price   int    `json:"price" binding:"required,gt=0"`
	Comment string `json:"comment" binding:"required,min=1"`
}

func (s *Server) submitEstimate(c *gin.Context) {
	requestID, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid request id")
		return
	}
	var body submitEstimateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "price must be a positive integer and comment non-empty")
		return
	}

	driverID, _ := principal(c)
	est, err := s.svc.Match().SubmitEstimate(c.Request.Context(), requestID, driverID, body.Price, body.Comment)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusCreated, "estimate submitted", est)
}

type rejectEstimateBody struct {
	RejectReason string `json:"rejectReason" binding:"required,min=1"`
}

func (s *Server) rejectEstimate(c *gin.Context) {
	requestID, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid request id")
		return
	}
	var body rejectEstimateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "rejectReason must be non-empty")
		return
	}

	driverID, _ := principal(c)
	est, err := s.svc.Match().RejectEstimate(c.Request.Context(), requestID, driverID, body.RejectReason)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusCreated, "estimate request declined", est)
}

func (s *Server) confirmEstimate(c *gin.Context) {
	estimateID, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid estimate id")
		return
	}

	userID, _ := principal(c)
	est, err := s.svc.Match().ConfirmEstimate(c.Request.Context(), estimateID, userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, "estimate confirmed", est)
}

type writeReviewBody struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"required,min=1"`
}

func (s *Server) writeReview(c *gin.Context) {
	estimateID, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid estimate id")
		return
	}
	var body writeReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "rating must be 1..5 and content non-empty")
		return
	}

	userID, _ := principal(c)
	rv, err := s.svc.Review().WriteReview(c.Request.Context(), estimateID, userID, body.Rating, body.Content)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusCreated, "review written", rv)
}

func (s *Server) listDriverReviews(c *gin.Context) {
	driverID, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	p, err := paging.ParseParams(c.Query("cursor"), c.Query("limit"))
	if err != nil {
		Fail(c, err)
		return
	}

	rows, pg, err := s.svc.Review().ListDriverReviews(c.Request.Context(), driverID, p)
	if err != nil {
		Fail(c, err)
		return
	}
	OKList(c, rows, pg)
}

type registerOfficeBody struct {
	addressBody
}

func (s *Server) registerOffice(c *gin.Context) {
	var body registerOfficeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "invalid office address")
		return
	}

	driverID, _ := principal(c)
	addr := body.toModel()
	office := &models.DriverOffice{
		DriverID:       driverID,
		Sido:           addr.Sido,
		SidoEnglish:    addr.SidoEnglish,
		Sigungu:        addr.Sigungu,
		SigunguEnglish: addr.SigunguEnglish,
		ZoneCode:       addr.ZoneCode,
		Address:        addr.Address,
		AddressEnglish: addr.AddressEnglish,
		Lat:            &addr.Lat,
		Lng:            &addr.Lng,
	}
	if err := s.svc.Search().RegisterOffice(c.Request.Context(), office); err != nil {
		Fail(c, err)
		return
	}
	OK(c, office)
}
