package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 100
)

func (s *Server) spin(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	present, err := s.participants.ListPresent(c.Request.Context(), room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(present) == 0 {
		respondError(c, apperr.NoPresentParticipants("no present participants to draw from"))
		return
	}
	winner := present[s.randIntN(len(present))]
	entry, updated, err := s.history.RecordSpin(c.Request.Context(), room.ID, winner.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"winner": gin.H{
			"id":       updated.ID,
			"name":     updated.Name,
			"winCount": updated.WinCount,
		},
		"spinHistory": entry,
	})
}

func (s *Server) listHistory(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	limit := historyDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			respondError(c, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = min(value, historyMaxLimit)
	}
	entries, err := s.history.List(c.Request.Context(), room.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, entries)
}

func (s *Server) resetRoom(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	if err := s.history.ResetRoom(c.Request.Context(), room.ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"ok": true})
}
