package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ParticipantStorage struct {
	store *Store
}

func (s *ParticipantStorage) Create(ctx context.Context, participant *Participant) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Create(participant).Error
	})
}

func (s *ParticipantStorage) Get(ctx context.Context, id uint) (*Participant, error) {
	var participant Participant
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).First(&participant, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (s *ParticipantStorage) ListByRoom(ctx context.Context, roomID uint) ([]Participant, error) {
	var participants []Participant
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ?", roomID).
			Order("created_at ASC, id ASC").
			Find(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListPresent returns the draw-eligible subset of a room's roster.
func (s *ParticipantStorage) ListPresent(ctx context.Context, roomID uint) ([]Participant, error) {
	var participants []Participant
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND is_present = ?", roomID, true).
			Order("created_at ASC, id ASC").
			Find(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListPokerEnabled returns the estimation-eligible subset of a room's roster.
func (s *ParticipantStorage) ListPokerEnabled(ctx context.Context, roomID uint) ([]Participant, error) {
	var participants []Participant
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND poker_enabled = ?", roomID, true).
			Order("created_at ASC, id ASC").
			Find(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *ParticipantStorage) SetPresent(ctx context.Context, id uint, present bool) (*Participant, error) {
	return s.update(ctx, id, map[string]any{"is_present": present})
}

func (s *ParticipantStorage) SetPokerEnabled(ctx context.Context, id uint, enabled bool) (*Participant, error) {
	return s.update(ctx, id, map[string]any{"poker_enabled": enabled})
}

func (s *ParticipantStorage) update(ctx context.Context, id uint, fields map[string]any) (*Participant, error) {
	var participant Participant
	err := s.store.do(func(conn *gorm.DB) error {
		if err := conn.WithContext(ctx).Model(&Participant{}).
			Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return conn.WithContext(ctx).First(&participant, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// Delete removes a participant together with its claims and votes.
func (s *ParticipantStorage) Delete(ctx context.Context, id uint) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("participant_id = ?", id).Delete(&ParticipantClaim{}).Error; err != nil {
				return err
			}
			if err := tx.Where("participant_id = ?", id).Delete(&PokerVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("participant_id = ?", id).Delete(&Impediment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("participant_id = ?", id).Delete(&SpinHistory{}).Error; err != nil {
				return err
			}
			return tx.Delete(&Participant{}, id).Error
		})
	})
}
