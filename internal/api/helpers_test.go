package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/camachoroberto/daily-roulette/internal/config"
	"github.com/camachoroberto/daily-roulette/internal/logging"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

var testDBSeq atomic.Int64

func newTestServer(t *testing.T) (*Server, *gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logging.Log = logrus.New()
	logging.Log.SetLevel(logrus.PanicLevel)

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and visible.
	sqlDB.SetMaxOpenConns(1)

	store := storage.NewStore(conn)
	require.NoError(t, store.Migrate())

	cfg := config.Default()
	cfg.SessionSecret = "test-secret"
	server := NewServer(cfg, store)
	return server, server.Router(), store
}

type envelope struct {
	OK    bool            `json:"ok"`
	Code  string          `json:"code"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

// createRoom provisions a room over the API and returns its session cookie.
func createRoom(t *testing.T, engine *gin.Engine, slug string) *http.Cookie {
	t.Helper()
	rec, _ := doJSON(t, engine, http.MethodPost, "/api/rooms", gin.H{
		"name":     "Daily FE",
		"slug":     slug,
		"passcode": "abc123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, engine, http.MethodPost, "/api/rooms/"+slug+"/auth", gin.H{
		"passcode": "abc123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func addParticipant(t *testing.T, engine *gin.Engine, slug, name string, session *http.Cookie) uint {
	t.Helper()
	rec, env := doJSON(t, engine, http.MethodPost, "/api/rooms/"+slug+"/participants",
		gin.H{"name": name}, session)
	require.Equal(t, http.StatusCreated, rec.Code)
	var participant storage.Participant
	require.NoError(t, json.Unmarshal(env.Data, &participant))
	return participant.ID
}

func enablePoker(t *testing.T, engine *gin.Engine, slug string, id uint, session *http.Cookie) {
	t.Helper()
	rec, _ := doJSON(t, engine, http.MethodPatch,
		fmt.Sprintf("/api/rooms/%s/poker/participants/%d", slug, id),
		gin.H{"pokerEnabled": true}, session)
	require.Equal(t, http.StatusOK, rec.Code)
}

func currentRoundID(t *testing.T, engine *gin.Engine, slug string, session *http.Cookie) uint {
	t.Helper()
	rec, env := doJSON(t, engine, http.MethodGet, "/api/rooms/"+slug+"/poker", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Round struct {
			ID uint `json:"id"`
		} `json:"round"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	return state.Round.ID
}
