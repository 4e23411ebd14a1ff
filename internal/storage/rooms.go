package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups when no row matches. Callers translate
// it into the API taxonomy; raw gorm errors never leave this package.
var ErrNotFound = errors.New("record not found")

type RoomStorage struct {
	store *Store
}

// RoomCounts are the public metadata counters exposed on the room endpoint.
type RoomCounts struct {
	Participants int64 `json:"participants"`
	SpinHistory  int64 `json:"spinHistory"`
}

func (s *RoomStorage) Create(ctx context.Context, room *Room) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Create(room).Error
	})
}

func (s *RoomStorage) GetBySlug(ctx context.Context, slug string) (*Room, error) {
	var room Room
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Where("slug = ?", slug).First(&room).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomStorage) Counts(ctx context.Context, roomID uint) (*RoomCounts, error) {
	var counts RoomCounts
	err := s.store.do(func(conn *gorm.DB) error {
		if err := conn.WithContext(ctx).Model(&Participant{}).
			Where("room_id = ?", roomID).Count(&counts.Participants).Error; err != nil {
			return err
		}
		return conn.WithContext(ctx).Model(&SpinHistory{}).
			Where("room_id = ?", roomID).Count(&counts.SpinHistory).Error
	})
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// Delete removes the room and everything it owns in one transaction. The
// cascade is explicit rather than constraint-driven so it behaves the same
// on every backend the tests run against.
func (s *RoomStorage) Delete(ctx context.Context, roomID uint) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var roundIDs []uint
			if err := tx.Model(&PokerRound{}).Where("room_id = ?", roomID).
				Pluck("id", &roundIDs).Error; err != nil {
				return err
			}
			if len(roundIDs) > 0 {
				if err := tx.Where("round_id IN ?", roundIDs).Delete(&PokerVote{}).Error; err != nil {
					return err
				}
			}
			for _, model := range []any{
				&PokerRound{}, &ParticipantClaim{}, &SpinHistory{}, &Impediment{}, &Participant{},
			} {
				if err := tx.Where("room_id = ?", roomID).Delete(model).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&Room{}, roomID).Error
		})
	})
}
