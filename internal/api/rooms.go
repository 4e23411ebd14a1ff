package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

// bcryptCost is fixed; the passcode is a shared room secret, not a personal
// credential, so the default work factor is enough.
const bcryptCost = 10

type createRoomRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Slug     string `json:"slug" binding:"required,max=50,slug"`
	Passcode string `json:"passcode" binding:"required,max=100"`
}

type authRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

func (s *Server) createRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	name, ok := normalizeName(req.Name)
	if !ok {
		respondError(c, apperr.Validation("name must be 1-100 characters"))
		return
	}

	if _, err := s.rooms.GetBySlug(c.Request.Context(), req.Slug); err == nil {
		respondError(c, apperr.Conflict("a room with this slug already exists"))
		return
	} else if err != storage.ErrNotFound {
		respondError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Passcode), bcryptCost)
	if err != nil {
		respondError(c, err)
		return
	}
	room := storage.Room{Name: name, Slug: req.Slug, PasscodeHash: string(hash)}
	if err := s.rooms.Create(c.Request.Context(), &room); err != nil {
		if isUniqueViolation(err) {
			respondError(c, apperr.Conflict("a room with this slug already exists"))
			return
		}
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, room)
}

func (s *Server) getRoom(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	counts, err := s.rooms.Counts(c.Request.Context(), room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"id":        room.ID,
		"name":      room.Name,
		"slug":      room.Slug,
		"createdAt": room.CreatedAt,
		"updatedAt": room.UpdatedAt,
		"counts":    counts,
	})
}

func (s *Server) deleteRoom(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	if err := s.rooms.Delete(c.Request.Context(), room.ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"ok": true})
}

func (s *Server) authenticate(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	var req authRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(room.PasscodeHash), []byte(req.Passcode)); err != nil {
		respondError(c, apperr.Unauthorized("incorrect passcode"))
		return
	}
	token, err := s.createRoomSession(room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	s.setSessionCookie(c, token)
	respondData(c, http.StatusOK, gin.H{"ok": true})
}

func (s *Server) checkSession(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	respondData(c, http.StatusOK, gin.H{"authenticated": true})
}

func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)
	respondData(c, http.StatusOK, gin.H{"ok": true})
}

// isUniqueViolation matches unique-index failures across the backends the
// service runs against (Postgres 23505, sqlite UNIQUE constraint).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
