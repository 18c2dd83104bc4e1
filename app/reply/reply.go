// Package reply renders service results in the API's JSON envelope
package reply

import (
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/internal/service"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OK writes {"success": true, ...fields}
func OK(c *gin.Context, code int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}

	c.JSON(code, body)
}

// Fail writes the error envelope with a fixed message
func Fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"success":   false,
		"error":     msg,
		"requestID": c.GetString("requestID"),
	})
}

// Error maps a service error to its status code. Anything unknown is logged
// and hidden behind a generic message.
func Error(c *gin.Context, err error, op string) {
	requestID := c.GetString("requestID")

	switch {
	case errors.Is(err, service.ErrValidation):
		Fail(c, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, service.ErrAccessDenied):
		Fail(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrShareUnavailable):
		Fail(c, http.StatusNotFound, "This document is not available. The link may have expired or sharing was disabled")
	case errors.Is(err, service.ErrNotFound):
		Fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrStoreUnavailable):
		Fail(c, http.StatusServiceUnavailable, "Service temporarily unavailable")
		zap.L().Error("Failed to "+op, zap.Error(err), zap.String("requestID", requestID))
	default:
		Fail(c, http.StatusInternalServerError, "Internal server error")
		zap.L().Error("Failed to "+op, zap.Error(err), zap.String("requestID", requestID))
	}
}

// validationMessage strips the sentinel prefix so clients see only the reason
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+", ")
	if msg == "" {
		return "Invalid request"
	}

	return strings.ToUpper(msg[:1]) + msg[1:]
}

// AuthError maps identity provider errors
func AuthError(c *gin.Context, err error, op string) {
	requestID := c.GetString("requestID")

	var cd *auth.CooldownError

	switch {
	case errors.As(err, &cd):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(cd.Remaining.Seconds()))))
		Fail(c, http.StatusTooManyRequests, "Please wait before requesting another email")
	case errors.Is(err, auth.ErrEmailTaken):
		Fail(c, http.StatusConflict, "This email is already registered. Please login or use a different email")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrSessionInvalid), errors.Is(err, auth.ErrSessionExpired):
		Fail(c, http.StatusUnauthorized, "Please log in again")
	case errors.Is(err, auth.ErrTokenInvalid):
		Fail(c, http.StatusNotFound, "Token expired or invalid")
	case errors.Is(err, auth.ErrTokenUsed):
		Fail(c, http.StatusBadRequest, "Token was used already")
	case errors.Is(err, auth.ErrTokenExpired):
		Fail(c, http.StatusBadRequest, "Token expired")
	case errors.Is(err, auth.ErrWrongPassword):
		Fail(c, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, auth.ErrSamePassword):
		Fail(c, http.StatusBadRequest, "New password must be different from current password")
	case errors.Is(err, auth.ErrPasswordRejected):
		Fail(c, http.StatusBadRequest, "Password does not meet the requirements")
	case errors.Is(err, auth.ErrAlreadyVerified):
		Fail(c, http.StatusConflict, "Account is already verified")
	case errors.Is(err, auth.ErrUnavailable):
		Fail(c, http.StatusServiceUnavailable, "Service temporarily unavailable")
		zap.L().Error("Failed to "+op, zap.Error(err), zap.String("requestID", requestID))
	default:
		Fail(c, http.StatusInternalServerError, "Internal server error")
		zap.L().Error("Failed to "+op, zap.Error(err), zap.String("requestID", requestID))
	}
}
