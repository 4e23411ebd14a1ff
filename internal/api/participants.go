package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

type createParticipantRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (s *Server) listParticipants(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	participants, err := s.participants.ListByRoom(c.Request.Context(), room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, participants)
}

func (s *Server) createParticipant(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	var req createParticipantRequest
	if !bindJSON(c, &req) {
		return
	}
	name, valid := normalizeName(req.Name)
	if !valid {
		respondError(c, apperr.Validation("name must be 1-100 characters"))
		return
	}
	participant := storage.Participant{
		RoomID:    room.ID,
		Name:      name,
		IsPresent: true,
	}
	if err := s.participants.Create(c.Request.Context(), &participant); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, participant)
}

func (s *Server) togglePresence(c *gin.Context) {
	participant, ok := s.authorizedParticipant(c)
	if !ok {
		return
	}
	updated, err := s.participants.SetPresent(c.Request.Context(), participant.ID, !participant.IsPresent)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, updated)
}

func (s *Server) deleteParticipant(c *gin.Context) {
	participant, ok := s.authorizedParticipant(c)
	if !ok {
		return
	}
	if err := s.participants.Delete(c.Request.Context(), participant.ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"ok": true})
}

// roomParticipant resolves id within room. Missing and cross-room
// participants both read as absent; storage failures pass through so
// connectivity outages keep their own status.
func (s *Server) roomParticipant(c *gin.Context, room *storage.Room, id uint) (*storage.Participant, bool) {
	participant, err := s.participants.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("participant not found"))
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	if participant.RoomID != room.ID {
		respondError(c, apperr.NotFound("participant not found"))
		return nil, false
	}
	return participant, true
}

// authorizedParticipant resolves :slug, enforces the session gate, then
// resolves :id within the room. A participant that exists in another room is
// FORBIDDEN, not NOT_FOUND, so callers can distinguish "exists elsewhere"
// from "doesn't exist".
func (s *Server) authorizedParticipant(c *gin.Context) (*storage.Participant, bool) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return nil, false
	}
	if !s.requireSession(c, room.ID) {
		return nil, false
	}
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	participant, err := s.participants.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("participant not found"))
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	if participant.RoomID != room.ID {
		respondError(c, apperr.Forbidden("participant does not belong to this room"))
		return nil, false
	}
	return participant, true
}
