package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movingmatch/pkg/apperr"
	"movingmatch/pkg/paging"
)

// Envelope is the unified response structure for ALL API endpoints.
type Envelope struct {
	Status      string `json:"status"`      // success | error
	Code        int    `json:"code"`        // usually HTTP status code
	Description string `json:"description"` // human readable
	Data        any    `json:"data"`        // object | array | null
}

func Success(c *gin.Context, httpCode int, description string, data any) {
	c.JSON(httpCode, Envelope{
		Status:      "success",
		Code:        httpCode,
		Description: description,
		Data:        data,
	})
}

func OK(c *gin.Context, data any) {
	Success(c, http.StatusOK, "ok", data)
}

func Error(c *gin.Context, httpCode int, description string) {
	c.JSON(httpCode, Envelope{
		Status:      "error",
		Code:        httpCode,
		Description: description,
		Data:        nil,
	})
}

// Fail maps the error taxonomy to HTTP status codes. Anything outside
// the taxonomy reads as an internal failure without leaking details.
func Fail(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindPrecondition:
		Error(c, http.StatusBadRequest, err.Error())
	case apperr.KindConflict:
		Error(c, http.StatusConflict, err.Error())
	case apperr.KindNotFound:
		Error(c, http.StatusNotFound, err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal error")
	}
}

// listBody is the data shape of every cursor-paginated endpoint.
type listBody struct {
	Data       any               `json:"data"`
	Pagination paging.Pagination `json:"pagination"`
}

func OKList(c *gin.Context, rows any, pg paging.Pagination) {
	OK(c, listBody{Data: rows, Pagination: pg})
}
