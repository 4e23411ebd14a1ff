// Package api is the HTTP surface: a gin engine exposing the room-scoped
// JSON API over the storage layer. Handlers validate input, enforce the
// session gate and translate storage results into the response envelope;
// multi-step atomicity lives in storage, not here.
package api

import (
	"math/rand/v2"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/camachoroberto/daily-roulette/internal/config"
	"github.com/camachoroberto/daily-roulette/internal/storage"
)

type Server struct {
	cfg          config.Config
	store        *storage.Store
	rooms        *storage.RoomStorage
	participants *storage.ParticipantStorage
	claims       *storage.ClaimStorage
	history      *storage.HistoryStorage
	rounds       *storage.RoundStorage
	votes        *storage.VoteStorage
	impediments  *storage.ImpedimentStorage

	// randIntN picks the draw index; swapped out in tests.
	randIntN func(n int) int
}

func NewServer(cfg config.Config, store *storage.Store) *Server {
	return &Server{
		cfg:          cfg,
		store:        store,
		rooms:        store.Rooms(),
		participants: store.Participants(),
		claims:       store.Claims(),
		history:      store.History(),
		rounds:       store.Rounds(),
		votes:        store.Votes(),
		impediments:  store.Impediments(),
		randIntN:     rand.IntN,
	}
}

func (s *Server) Router() *gin.Engine {
	registerValidators()
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	api := r.Group("/api")
	api.POST("/rooms", s.createRoom)
	api.GET("/health/db", s.healthDB)
	api.GET("/cron/keepalive", s.keepalive)

	room := api.Group("/rooms/:slug")
	room.GET("", s.getRoom)
	room.DELETE("", s.deleteRoom)
	room.POST("/auth", s.authenticate)
	room.GET("/check-session", s.checkSession)
	room.POST("/logout", s.logout)

	room.GET("/participants", s.listParticipants)
	room.POST("/participants", s.createParticipant)
	room.PATCH("/participants/:id", s.togglePresence)
	room.DELETE("/participants/:id", s.deleteParticipant)

	room.POST("/spin", s.spin)
	room.GET("/history", s.listHistory)
	room.POST("/reset", s.resetRoom)

	room.GET("/poker", s.getPokerState)
	room.POST("/poker/new-round", s.newRound)
	room.POST("/poker/reset", s.resetVoting)
	room.POST("/poker/reveal", s.reveal)
	room.POST("/poker/vote", s.castVote)
	room.POST("/poker/claim", s.claimParticipant)
	room.PATCH("/poker/participants/:id", s.setPokerEnabled)

	room.GET("/impediments", s.listImpediments)
	room.POST("/impediments", s.upsertImpediment)
	room.POST("/impediments/resolve", s.resolveImpediment)

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}
