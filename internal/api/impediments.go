package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/dates"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

const maxDescriptionLength = 100

type upsertImpedimentRequest struct {
	ParticipantID uint    `json:"participantId" binding:"required"`
	Status        string  `json:"status" binding:"required,oneof=GREEN YELLOW RED"`
	Description   *string `json:"description"`
}

type resolveImpedimentRequest struct {
	ParticipantID uint `json:"participantId" binding:"required"`
}

type impedimentEntry struct {
	ID          uint    `json:"id"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

func (s *Server) listImpediments(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	loc := s.cfg.Location()
	day := c.DefaultQuery("date", dates.Today(loc))
	date, err := dates.DayStartUTC(day)
	if err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	yesterday, err := dates.DayStartUTC(dates.Yesterday(loc))
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	todays, err := s.impediments.ListByDate(ctx, room.ID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	previousActive, err := s.impediments.ListActiveOn(ctx, room.ID, yesterday)
	if err != nil {
		respondError(c, err)
		return
	}

	todayByParticipant := make(map[uint]impedimentEntry, len(todays))
	for _, i := range todays {
		todayByParticipant[i.ParticipantID] = impedimentEntry{
			ID:          i.ID,
			Status:      i.Status,
			Description: i.Description,
		}
	}
	respondData(c, http.StatusOK, gin.H{
		"todayByParticipant": todayByParticipant,
		"previousDayActive":  previousActive,
	})
}

func (s *Server) upsertImpediment(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	var req upsertImpedimentRequest
	if !bindJSON(c, &req) {
		return
	}
	participant, ok := s.roomParticipant(c, room, req.ParticipantID)
	if !ok {
		return
	}

	// GREEN means no impediment; a description would be meaningless.
	description := req.Description
	if req.Status == storage.ImpedimentGreen {
		description = nil
	} else if description != nil {
		truncated := truncateRunes(*description, maxDescriptionLength)
		description = &truncated
	}

	date, err := dates.DayStartUTC(dates.Today(s.cfg.Location()))
	if err != nil {
		respondError(c, err)
		return
	}
	impediment := storage.Impediment{
		RoomID:        room.ID,
		ParticipantID: participant.ID,
		Date:          date,
		Status:        req.Status,
		Description:   description,
	}
	if err := s.impediments.Upsert(c.Request.Context(), &impediment); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, impediment)
}

func (s *Server) resolveImpediment(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	var req resolveImpedimentRequest
	if !bindJSON(c, &req) {
		return
	}
	participant, ok := s.roomParticipant(c, room, req.ParticipantID)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	active, err := s.impediments.FindActive(ctx, room.ID, participant.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("no active impediment for this participant"))
		} else {
			respondError(c, err)
		}
		return
	}
	today, err := dates.DayStartUTC(dates.Today(s.cfg.Location()))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.impediments.Resolve(ctx, active, today, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"ok": true})
}
