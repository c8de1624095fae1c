package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/cecilvega/kverse-sub000/internal/api/shared/errors"
	"github.com/cecilvega/kverse-sub000/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(message))
}

// respondError responds with the status of an executor APIError.
// Any other error is logged and reported as an internal error.
func respondError(c *gin.Context, err error, message string) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode() >= http.StatusInternalServerError {
			logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		}
		c.JSON(apiErr.StatusCode(), apiErr)
		return
	}

	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message))
}
