package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/logging"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

// respondData writes the success envelope {ok:true, data}.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"ok": true, "data": data})
}

// respondError normalizes err into the taxonomy, logs a structured entry and
// writes the error envelope {ok:false, code, error}. Raw driver errors are
// logged but never sent to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if logging.Log != nil {
		entry := logging.Log.WithFields(logrus.Fields{
			"code":       appErr.Code,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		if appErr.Code == apperr.CodeInternal || appErr.Code == apperr.CodeDatabaseUnavailable {
			entry = entry.WithField("raw", err.Error())
		}
		entry.Error(appErr.Message)
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"ok":    false,
		"code":  appErr.Code,
		"error": appErr.Message,
	})
}

// lookupRoom resolves the :slug param. On failure it writes the response and
// returns false.
func lookupRoom(c *gin.Context, rooms *storage.RoomStorage) (*storage.Room, bool) {
	room, err := rooms.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("room not found"))
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return room, true
}

// bindJSON decodes the body, translating binding failures into
// VALIDATION_ERROR responses.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}

// pathID parses a numeric :id param.
func pathID(c *gin.Context) (uint, bool) {
	var params struct {
		ID uint `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		respondError(c, apperr.New(apperr.CodeNotFound, "participant not found", http.StatusNotFound))
		return 0, false
	}
	return params.ID, true
}
