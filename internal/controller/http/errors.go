package http

import (
	"errors"
	"net/http"

	"feedstream/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError is the single boundary mapping typed service errors onto the
// uniform {message, status, data?} body. Anything untyped becomes a 500 with
// a generic message.
func respondError(c *gin.Context, err error) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Invalid input",
			"status":  http.StatusUnprocessableEntity,
			"data":    validationErr.Fields,
		})
		return
	}

	var authErr *apperr.AuthenticationError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": authErr.Error(),
			"status":  http.StatusUnauthorized,
		})
		return
	}

	var authzErr *apperr.AuthorizationError
	if errors.As(err, &authzErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"message": authzErr.Error(),
			"status":  http.StatusForbidden,
		})
		return
	}

	var conflictErr *apperr.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{
			"message": conflictErr.Error(),
			"status":  http.StatusConflict,
		})
		return
	}

	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": notFoundErr.Error(),
			"status":  http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "An error occurred",
		"status":  http.StatusInternalServerError,
	})
}
