package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImpedimentStorage struct {
	store *Store
}

// Upsert writes the participant's entry for one calendar day, keyed on
// (participant, date). Repeated calls for the same day overwrite.
func (s *ImpedimentStorage) Upsert(ctx context.Context, impediment *Impediment) error {
	return s.store.do(func(conn *gorm.DB) error {
		return upsertImpediment(conn.WithContext(ctx), impediment)
	})
}

func upsertImpediment(conn *gorm.DB, impediment *Impediment) error {
	return conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "description", "updated_at"}),
	}).Create(impediment).Error
}

// FindActive returns the participant's most recent unresolved YELLOW/RED
// entry, or ErrNotFound.
func (s *ImpedimentStorage) FindActive(ctx context.Context, roomID, participantID uint) (*Impediment, error) {
	var impediment Impediment
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND participant_id = ? AND resolved_at IS NULL AND status IN ?",
				roomID, participantID, []string{ImpedimentYellow, ImpedimentRed}).
			Order("date DESC").
			First(&impediment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &impediment, nil
}

// Resolve stamps ResolvedAt on the active entry and upserts today's entry to
// GREEN with no description. Both writes commit together or not at all.
func (s *ImpedimentStorage) Resolve(ctx context.Context, active *Impediment, today time.Time, now time.Time) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&Impediment{}).Where("id = ?", active.ID).
				Update("resolved_at", now).Error; err != nil {
				return err
			}
			return upsertImpediment(tx, &Impediment{
				RoomID:        active.RoomID,
				ParticipantID: active.ParticipantID,
				Date:          today,
				Status:        ImpedimentGreen,
				Description:   nil,
			})
		})
	})
}

// ListByDate returns every entry for the room on one day.
func (s *ImpedimentStorage) ListByDate(ctx context.Context, roomID uint, date time.Time) ([]Impediment, error) {
	var impediments []Impediment
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND date = ?", roomID, date).
			Find(&impediments).Error
	})
	if err != nil {
		return nil, err
	}
	return impediments, nil
}

// ListActiveOn returns the unresolved YELLOW/RED entries for one day, used
// for the carry-over prompt against yesterday.
func (s *ImpedimentStorage) ListActiveOn(ctx context.Context, roomID uint, date time.Time) ([]Impediment, error) {
	var impediments []Impediment
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND date = ? AND resolved_at IS NULL AND status IN ?",
				roomID, date, []string{ImpedimentYellow, ImpedimentRed}).
			Find(&impediments).Error
	})
	if err != nil {
		return nil, err
	}
	return impediments, nil
}
