// Package storage is the persistence layer: GORM models, one storage type
// per entity, and a shared bounded-retry helper for store connectivity
// failures. All multi-step writes that must be atomic run inside a single
// database transaction here, never in the API layer.
package storage

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camachoroberto/daily-roulette/internal/config"
)

// Store owns the process-wide database handle. It is created once in main
// and shared by reference; per-entity storages hang off it.
type Store struct {
	db      *gorm.DB
	retrier *retrier
}

// Open connects to Postgres and applies the pool settings from cfg. The
// returned Store is the single shared handle for the process.
func Open(cfg config.Config) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
	return NewStore(conn), nil
}

// NewStore wraps an existing connection (tests pass sqlite here).
func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn, retrier: newRetrier(maxAttempts)}
}

// Migrate runs GORM auto-migrations for the core tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&Room{},
		&Participant{},
		&ParticipantClaim{},
		&SpinHistory{},
		&PokerRound{},
		&PokerVote{},
		&Impediment{},
	)
}

// Ping issues a trivial probe against the store. Used by the health and
// keepalive endpoints; 200/503 only, never a generic 500.
func (s *Store) Ping() error {
	return s.do(func(conn *gorm.DB) error {
		return conn.Exec("SELECT 1").Error
	})
}

// do runs fn against the shared handle inside the bounded-retry helper.
// Every storage method goes through here; this is the explicit replacement
// for the original's reflective retry proxy.
func (s *Store) do(fn func(conn *gorm.DB) error) error {
	return s.retrier.do(func() error {
		return fn(s.db)
	})
}

// Rooms returns the room storage bound to this store.
func (s *Store) Rooms() *RoomStorage { return &RoomStorage{store: s} }

// Participants returns the participant storage bound to this store.
func (s *Store) Participants() *ParticipantStorage { return &ParticipantStorage{store: s} }

// Claims returns the claim storage bound to this store.
func (s *Store) Claims() *ClaimStorage { return &ClaimStorage{store: s} }

// History returns the draw history storage bound to this store.
func (s *Store) History() *HistoryStorage { return &HistoryStorage{store: s} }

// Rounds returns the poker round storage bound to this store.
func (s *Store) Rounds() *RoundStorage { return &RoundStorage{store: s} }

// Votes returns the poker vote storage bound to this store.
func (s *Store) Votes() *VoteStorage { return &VoteStorage{store: s} }

// Impediments returns the impediment storage bound to this store.
func (s *Store) Impediments() *ImpedimentStorage { return &ImpedimentStorage{store: s} }
