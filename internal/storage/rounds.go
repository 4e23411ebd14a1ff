package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// maxRoundsPerRoom bounds retained poker rounds per room. The sweep runs
// only when a new round is created; a room that never starts one keeps its
// rounds indefinitely.
const maxRoundsPerRoom = 30

type RoundStorage struct {
	store *Store
}

// Current returns the most recently created round for the room, or
// ErrNotFound when the room has none yet.
func (s *RoundStorage) Current(ctx context.Context, roomID uint) (*PokerRound, error) {
	var round PokerRound
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ?", roomID).
			Order("created_at DESC, id DESC").
			First(&round).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// GetForRoom returns the round only if it belongs to the room.
func (s *RoundStorage) GetForRoom(ctx context.Context, roundID, roomID uint) (*PokerRound, error) {
	var round PokerRound
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("id = ? AND room_id = ?", roundID, roomID).
			First(&round).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

// Create opens a fresh VOTING round and prunes rounds beyond the retention
// cap, oldest first, votes included.
func (s *RoundStorage) Create(ctx context.Context, roomID uint) (*PokerRound, error) {
	round := PokerRound{RoomID: roomID, Status: RoundVoting}
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&round).Error; err != nil {
				return err
			}
			var staleIDs []uint
			if err := tx.Model(&PokerRound{}).
				Where("room_id = ?", roomID).
				Order("created_at DESC, id DESC").
				Offset(maxRoundsPerRoom).
				Pluck("id", &staleIDs).Error; err != nil {
				return err
			}
			if len(staleIDs) == 0 {
				return nil
			}
			if err := tx.Where("round_id IN ?", staleIDs).Delete(&PokerVote{}).Error; err != nil {
				return err
			}
			return tx.Where("id IN ?", staleIDs).Delete(&PokerRound{}).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// Reveal flips the round to REVEALED. Completeness gating happens in the API
// layer before this is called.
func (s *RoundStorage) Reveal(ctx context.Context, roundID uint) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Model(&PokerRound{}).
			Where("id = ?", roundID).
			Update("status", RoundRevealed).Error
	})
}

// ResetVoting clears every vote on the round and forces it back to VOTING.
// This is the deliberate escape hatch out of REVEALED.
func (s *RoundStorage) ResetVoting(ctx context.Context, roundID uint) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("round_id = ?", roundID).Delete(&PokerVote{}).Error; err != nil {
				return err
			}
			return tx.Model(&PokerRound{}).Where("id = ?", roundID).
				Update("status", RoundVoting).Error
		})
	})
}

// CountByRoom reports how many rounds the room currently retains.
func (s *RoundStorage) CountByRoom(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Model(&PokerRound{}).
			Where("room_id = ?", roomID).Count(&count).Error
	})
	return count, err
}
