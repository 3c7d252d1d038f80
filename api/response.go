package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/analyzer"
	"github.com/seo-optimizer/advisor/models"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: msg, Code: "bad_request"})
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) (int, string) {
	var perr *analyzer.PersistenceError
	switch {
	case errors.Is(err, analyzer.ErrInvalidProduct):
		return http.StatusNotFound, "invalid_product"
	case errors.Is(err, analyzer.ErrInvalidContent):
		return http.StatusNotFound, "invalid_content"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, analyzer.ErrUnsupportedContentType):
		return http.StatusUnprocessableEntity, "unsupported_type"
	case errors.As(err, &perr):
		return http.StatusServiceUnavailable, "persistence_failure"
	}
	return http.StatusInternalServerError, "internal_error"
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", code),
			zap.Error(err),
		)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorBody{Error: err.Error(), Code: code})
}
