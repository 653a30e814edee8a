package api

import (
	"errors"
	"net/http"

	"finapi/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP statuses. Every error body has the
// shape {"message": "..."}.
func writeError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrStatementNotFound):
		status, message = http.StatusNotFound, "Statement not found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		status, message = http.StatusBadRequest, "Insufficient funds"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameUser):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		status, message = http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Incorrect email or password"
	}
	c.JSON(status, gin.H{"message": message})
}

// authedUser returns the user id stored by the JWT middleware.
func authedUser(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return "", false
	}
	return userID.(string), true
}
