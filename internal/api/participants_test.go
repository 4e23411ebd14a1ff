package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

func TestCreateParticipant(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")

	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/participants",
		gin.H{"name": "  Ana  "}, session)
	require.Equal(t, http.StatusCreated, rec.Code)

	var participant storage.Participant
	require.NoError(t, json.Unmarshal(env.Data, &participant))
	assert.Equal(t, "Ana", participant.Name)
	assert.True(t, participant.IsPresent)
	assert.False(t, participant.PokerEnabled)
	assert.Zero(t, participant.WinCount)
}

func TestCreateParticipantRequiresSession(t *testing.T) {
	_, engine, _ := newTestServer(t)
	createRoom(t, engine, "daily-fe")

	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/participants",
		gin.H{"name": "Ana"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.CodeUnauthorized), env.Code)
}

func TestListParticipantsIsPublic(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")
	addParticipant(t, engine, "daily-fe", "Ana", session)
	addParticipant(t, engine, "daily-fe", "Bea", session)

	rec, env := doJSON(t, engine, http.MethodGet, "/api/rooms/daily-fe/participants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var participants []storage.Participant
	require.NoError(t, json.Unmarshal(env.Data, &participants))
	require.Len(t, participants, 2)
	assert.Equal(t, "Ana", participants[0].Name)
	assert.Equal(t, "Bea", participants[1].Name)
}

func TestTogglePresence(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")
	id := addParticipant(t, engine, "daily-fe", "Ana", session)

	path := fmt.Sprintf("/api/rooms/daily-fe/participants/%d", id)
	rec, env := doJSON(t, engine, http.MethodPatch, path, nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var participant storage.Participant
	require.NoError(t, json.Unmarshal(env.Data, &participant))
	assert.False(t, participant.IsPresent)

	rec, env = doJSON(t, engine, http.MethodPatch, path, nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &participant))
	assert.True(t, participant.IsPresent)
}

func TestParticipantFromAnotherRoomIsForbidden(t *testing.T) {
	_, engine, _ := newTestServer(t)
	sessionA := createRoom(t, engine, "daily-fe")
	sessionB := createRoom(t, engine, "daily-be")
	foreign := addParticipant(t, engine, "daily-be", "Bea", sessionB)

	rec, env := doJSON(t, engine, http.MethodPatch,
		fmt.Sprintf("/api/rooms/daily-fe/participants/%d", foreign), nil, sessionA)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperr.CodeForbidden), env.Code)
}

func TestDeleteParticipantCascades(t *testing.T) {
	server, engine, store := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")
	id := addParticipant(t, engine, "daily-fe", "Ana", session)
	enablePoker(t, engine, "daily-fe", id, session)

	server.randIntN = func(int) int { return 0 }
	rec, _ := doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/spin", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	roundID := currentRoundID(t, engine, "daily-fe", session)
	rec, _ = doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/poker/claim",
		gin.H{"participantId": id, "sessionId": "browser-1"}, session)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/poker/vote",
		gin.H{"roundId": roundID, "participantId": id, "sessionId": "browser-1", "value": "5"}, session)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, engine, http.MethodDelete,
		fmt.Sprintf("/api/rooms/daily-fe/participants/%d", id), nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	ctx := context.Background()
	_, err := store.Participants().Get(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	votes, err := store.Votes().ListByRound(ctx, roundID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	room, err := store.Rooms().GetBySlug(ctx, "daily-fe")
	require.NoError(t, err)
	_, err = store.Claims().Get(ctx, room.ID, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	entries, err := store.History().List(ctx, room.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
