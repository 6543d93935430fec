package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskforge/backend/internal/engine"
)

// respondError maps a service error to its HTTP response. Engine kinds map to
// their statuses; LAST_ADMIN and SELF_DELETE additionally carry a code the
// client can branch on. Anything unrecognized is logged and reported as a
// generic server error.
func respondError(c *gin.Context, err error) {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		body := gin.H{"message": engErr.Message}
		if code := engErr.Code(); code != "" {
			body["code"] = code
		}
		c.JSON(statusForKind(engErr.Kind), body)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	log.Printf("unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}

func statusForKind(kind engine.ErrorKind) int {
	switch kind {
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindForbidden:
		return http.StatusForbidden
	case engine.KindLastAdmin, engine.KindSelfDelete, engine.KindAlreadyAdmin,
		engine.KindConflict, engine.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
