package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/poker"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

// claimTTL is how long a browser session owns a participant slot before the
// binding lapses.
const claimTTL = 2 * time.Hour

type castVoteRequest struct {
	RoundID       uint   `json:"roundId" binding:"required"`
	ParticipantID uint   `json:"participantId" binding:"required"`
	SessionID     string `json:"sessionId" binding:"required,max=64"`
	Value         string `json:"value" binding:"required"`
}

type claimRequest struct {
	ParticipantID uint   `json:"participantId" binding:"required"`
	SessionID     string `json:"sessionId" binding:"required,max=64"`
}

type revealRequest struct {
	RoundID uint `json:"roundId" binding:"required"`
}

type pokerEnabledRequest struct {
	PokerEnabled *bool `json:"pokerEnabled" binding:"required"`
}

type voteSummaryEntry struct {
	ParticipantID uint    `json:"participantId"`
	HasVoted      bool    `json:"hasVoted"`
	Value         *string `json:"value,omitempty"`
}

func (s *Server) getPokerState(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	ctx := c.Request.Context()

	round, err := s.rounds.Current(ctx, room.ID)
	if errors.Is(err, storage.ErrNotFound) {
		round, err = s.rounds.Create(ctx, room.ID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	participants, err := s.participants.ListByRoom(ctx, room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	votes, err := s.votes.ListByRound(ctx, round.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	votesByParticipant := make(map[uint]string, len(votes))
	for _, v := range votes {
		votesByParticipant[v.ParticipantID] = v.Value
	}

	revealed := round.Status == storage.RoundRevealed
	summary := make([]voteSummaryEntry, 0)
	var revealedValues []string
	eligibleCount := 0
	for _, p := range participants {
		if !p.PokerEnabled {
			continue
		}
		eligibleCount++
		value, voted := votesByParticipant[p.ID]
		entry := voteSummaryEntry{ParticipantID: p.ID, HasVoted: voted}
		if revealed && voted {
			entry.Value = &value
			revealedValues = append(revealedValues, value)
		}
		summary = append(summary, entry)
	}

	data := gin.H{
		"round": gin.H{
			"id":        round.ID,
			"status":    round.Status,
			"createdAt": round.CreatedAt,
		},
		"participants":  participants,
		"voteSummary":   summary,
		"eligibleCount": eligibleCount,
	}
	if revealed {
		data["stats"] = poker.CalculateStats(revealedValues)
	}
	respondData(c, http.StatusOK, data)
}

func (s *Server) newRound(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	round, err := s.rounds.Create(c.Request.Context(), room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"round": round})
}

func (s *Server) resetVoting(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	round, err := s.rounds.Current(c.Request.Context(), room.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("no round found"))
		} else {
			respondError(c, err)
		}
		return
	}
	if err := s.rounds.ResetVoting(c.Request.Context(), round.ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"success": true})
}

func (s *Server) reveal(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	var req revealRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	round, err := s.rounds.GetForRoom(ctx, req.RoundID, room.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("round not found"))
		} else {
			respondError(c, err)
		}
		return
	}
	if round.Status == storage.RoundRevealed {
		respondData(c, http.StatusOK, gin.H{"success": true, "alreadyRevealed": true})
		return
	}

	eligible, err := s.participants.ListPokerEnabled(ctx, room.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	votes, err := s.votes.ListByRound(ctx, round.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	voted := make(map[uint]struct{}, len(votes))
	for _, v := range votes {
		voted[v.ParticipantID] = struct{}{}
	}
	for _, p := range eligible {
		if _, ok := voted[p.ID]; !ok {
			respondError(c, apperr.IncompleteVotes("not every eligible participant has voted"))
			return
		}
	}

	if err := s.rounds.Reveal(ctx, round.ID); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"success": true})
}

func (s *Server) castVote(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	var req castVoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if !poker.IsValidValue(req.Value) {
		respondError(c, apperr.Validation("invalid vote value"))
		return
	}
	ctx := c.Request.Context()

	round, err := s.rounds.GetForRoom(ctx, req.RoundID, room.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("round not found"))
		} else {
			respondError(c, err)
		}
		return
	}
	if round.Status != storage.RoundVoting {
		respondError(c, apperr.InvalidState("round has already been revealed"))
		return
	}

	claim, err := s.claims.Get(ctx, room.ID, req.ParticipantID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		respondError(c, err)
		return
	}
	if claim == nil || claim.SessionID != req.SessionID || claim.ExpiresAt.Before(time.Now()) {
		respondError(c, apperr.Unauthorized("invalid or expired claim"))
		return
	}

	participant, err := s.participants.Get(ctx, req.ParticipantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, apperr.NotFound("participant not found"))
		} else {
			respondError(c, err)
		}
		return
	}
	if participant.RoomID != room.ID || !participant.PokerEnabled {
		respondError(c, apperr.Forbidden("participant is not enabled for poker"))
		return
	}

	vote := storage.PokerVote{
		RoundID:       round.ID,
		ParticipantID: participant.ID,
		Value:         req.Value,
	}
	if err := s.votes.Upsert(ctx, &vote); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"success": true})
}

func (s *Server) claimParticipant(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	var req claimRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	participant, ok := s.roomParticipant(c, room, req.ParticipantID)
	if !ok {
		return
	}

	now := time.Now()
	if err := s.claims.DeleteExpired(ctx, room.ID, now); err != nil {
		respondError(c, err)
		return
	}

	existing, err := s.claims.Get(ctx, room.ID, participant.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		respondError(c, err)
		return
	}
	if existing != nil && existing.ExpiresAt.After(now) && existing.SessionID != req.SessionID {
		respondError(c, apperr.NameTaken("name is already claimed in this room"))
		return
	}

	claim := storage.ParticipantClaim{
		RoomID:        room.ID,
		ParticipantID: participant.ID,
		SessionID:     req.SessionID,
		ExpiresAt:     now.Add(claimTTL),
	}
	if err := s.claims.Upsert(ctx, &claim); err != nil {
		respondError(c, err)
		return
	}
	// Re-read so the conflict-update path also reports the stored id.
	stored, err := s.claims.Get(ctx, room.ID, participant.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"claim": gin.H{
			"id":        stored.ID,
			"expiresAt": stored.ExpiresAt,
		},
	})
}

func (s *Server) setPokerEnabled(c *gin.Context) {
	room, ok := lookupRoom(c, s.rooms)
	if !ok {
		return
	}
	if !s.requireSession(c, room.ID) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req pokerEnabledRequest
	if !bindJSON(c, &req) {
		return
	}
	participant, ok := s.roomParticipant(c, room, id)
	if !ok {
		return
	}
	updated, err := s.participants.SetPokerEnabled(c.Request.Context(), participant.ID, *req.PokerEnabled)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, updated)
}
