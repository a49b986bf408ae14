package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-admin/internal/apperrors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// respondError maps the error taxonomy onto HTTP statuses.
// Upstream causes are logged and never sent to the client.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *apperrors.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password"})
	case errors.Is(err, apperrors.ErrUnauthenticated):
		abort(c, http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	case errors.As(err, &ve):
		abort(c, http.StatusBadRequest, ErrorResponse{Message: "Invalid input", Errors: ve.Fields})
	case errors.Is(err, apperrors.ErrMissingFilename):
		abort(c, http.StatusBadRequest, ErrorResponse{Message: "Filename is required"})
	case errors.Is(err, apperrors.ErrNotFound):
		abort(c, http.StatusNotFound, ErrorResponse{Message: "Post not found"})
	default:
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
		abort(c, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

func abort(c *gin.Context, status int, body ErrorResponse) {
	c.AbortWithStatusJSON(status, body)
}

// bindError turns a JSON decoding failure into a validation error
func bindError(err error) error {
	return apperrors.NewValidationError("body", "must be valid JSON: "+err.Error())
}

// currentUserID returns the id set by the auth middleware
func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
