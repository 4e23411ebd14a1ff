package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camachoroberto/daily-roulette/internal/apperr"
)

func TestCreateRoom(t *testing.T) {
	_, engine, _ := newTestServer(t)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms", gin.H{
		"name":     "Daily FE",
		"slug":     "daily-fe",
		"passcode": "abc123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.OK)

	var room struct {
		ID           uint   `json:"id"`
		Name         string `json:"name"`
		Slug         string `json:"slug"`
		PasscodeHash string `json:"passcodeHash"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.NotZero(t, room.ID)
	assert.Equal(t, "Daily FE", room.Name)
	assert.Equal(t, "daily-fe", room.Slug)
	// The hash must never leave the server.
	assert.Empty(t, room.PasscodeHash)
}

func TestCreateRoomValidation(t *testing.T) {
	_, engine, _ := newTestServer(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"slug": "daily", "passcode": "x"}},
		{"bad slug characters", gin.H{"name": "Daily", "slug": "Daily FE!", "passcode": "x"}},
		{"missing passcode", gin.H{"name": "Daily", "slug": "daily"}},
		{"blank name", gin.H{"name": "   ", "slug": "daily", "passcode": "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(apperr.CodeValidation), env.Code)
		})
	}
}

func TestCreateRoomDuplicateSlug(t *testing.T) {
	_, engine, _ := newTestServer(t)
	createRoom(t, engine, "daily-fe")

	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms", gin.H{
		"name":     "Another",
		"slug":     "daily-fe",
		"passcode": "other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(apperr.CodeConflict), env.Code)
}

func TestAuthenticateWrongPasscode(t *testing.T) {
	_, engine, _ := newTestServer(t)
	createRoom(t, engine, "daily-fe")

	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/auth", gin.H{
		"passcode": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.CodeUnauthorized), env.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthenticateUnknownRoom(t *testing.T) {
	_, engine, _ := newTestServer(t)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms/ghost/auth", gin.H{
		"passcode": "abc123",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(apperr.CodeNotFound), env.Code)
}

func TestCheckSession(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")

	rec, env := doJSON(t, engine, http.MethodGet, "/api/rooms/daily-fe/check-session", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Authenticated bool `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Authenticated)

	rec, env = doJSON(t, engine, http.MethodGet, "/api/rooms/daily-fe/check-session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.CodeUnauthorized), env.Code)
}

func TestSessionDoesNotCrossRooms(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")
	createRoom(t, engine, "daily-be")

	rec, env := doJSON(t, engine, http.MethodGet, "/api/rooms/daily-be/check-session", nil, session)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.CodeUnauthorized), env.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/rooms/daily-fe/logout", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestGetRoomCounts(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")
	addParticipant(t, engine, "daily-fe", "Ana", session)
	addParticipant(t, engine, "daily-fe", "Bea", session)

	rec, env := doJSON(t, engine, http.MethodGet, "/api/rooms/daily-fe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Slug   string `json:"slug"`
		Counts struct {
			Participants int64 `json:"participants"`
			SpinHistory  int64 `json:"spinHistory"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "daily-fe", data.Slug)
	assert.Equal(t, int64(2), data.Counts.Participants)
	assert.Equal(t, int64(0), data.Counts.SpinHistory)
}

func TestDeleteRoom(t *testing.T) {
	_, engine, _ := newTestServer(t)
	session := createRoom(t, engine, "daily-fe")
	addParticipant(t, engine, "daily-fe", "Ana", session)

	rec, _ := doJSON(t, engine, http.MethodDelete, "/api/rooms/daily-fe", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, engine, http.MethodDelete, "/api/rooms/daily-fe", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, engine, http.MethodGet, "/api/rooms/daily-fe", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(apperr.CodeNotFound), env.Code)
}
