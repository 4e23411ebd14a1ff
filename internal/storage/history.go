package storage

import (
	"context"

	"gorm.io/gorm"
)

type HistoryStorage struct {
	store *Store
}

// RecordSpin appends the history row and bumps the winner's count in a
// single transaction so a partial failure can never leave the count
// incremented without a row, or vice versa.
func (s *HistoryStorage) RecordSpin(ctx context.Context, roomID, winnerID uint) (*SpinHistory, *Participant, error) {
	var (
		entry  SpinHistory
		winner Participant
	)
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			entry = SpinHistory{RoomID: roomID, ParticipantID: winnerID}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if err := tx.Model(&Participant{}).Where("id = ?", winnerID).
				Update("win_count", gorm.Expr("win_count + 1")).Error; err != nil {
				return err
			}
			if err := tx.First(&winner, winnerID).Error; err != nil {
				return err
			}
			entry.Participant = winner
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return &entry, &winner, nil
}

// List returns the newest entries first, winner embedded. Limit is already
// clamped by the API layer.
func (s *HistoryStorage) List(ctx context.Context, roomID uint, limit int) ([]SpinHistory, error) {
	var entries []SpinHistory
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ?", roomID).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Preload("Participant").
			Find(&entries).Error
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ResetRoom clears the room's draw history and zeroes every win count in one
// transaction. The only way draw history is ever truncated.
func (s *HistoryStorage) ResetRoom(ctx context.Context, roomID uint) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("room_id = ?", roomID).Delete(&SpinHistory{}).Error; err != nil {
				return err
			}
			return tx.Model(&Participant{}).Where("room_id = ?", roomID).
				Update("win_count", 0).Error
		})
	})
}
