package handlers

import (
	"errors"
	"net/http"

	"github.com/akila4352/library-service/internal/service"
	"github.com/akila4352/library-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the body of requests that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondError writes message as a JSON error body.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message})
}

// LogAndRespondError logs err with the request logger and responds with
// message, keeping internal details out of the response.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	logger.FromContext(c.Request.Context()).Error(message,
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
	)
	RespondError(c, status, message)
}

// respondServiceError maps a service error onto its HTTP status. Client
// errors echo the error text; server errors respond with fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrActiveLoan):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidOTP):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	default:
		LogAndRespondError(c, http.StatusInternalServerError, err, fallback)
	}
}
