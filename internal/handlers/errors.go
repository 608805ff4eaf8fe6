package handlers

import (
	"errors"
	"net/http"

	"goldland-pos/internal/services"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation -> 400, not found -> 404, conflicts (stock, terminal
// states, cancelled bills) -> 409, anything else -> 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrTerminalOrder),
		errors.Is(err, services.ErrBillCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// actorFrom builds the audit actor string from the authenticated user.
func actorFrom(c *gin.Context) string {
	if username, ok := c.Get("username"); ok {
		if s, ok := username.(string); ok && s != "" {
			return s
		}
	}
	return "system"
}
