package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClaimStorage struct {
	store *Store
}

// DeleteExpired reaps every expired claim in the room. Runs opportunistically
// on the claim path; there is no background sweep.
func (s *ClaimStorage) DeleteExpired(ctx context.Context, roomID uint, now time.Time) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND expires_at < ?", roomID, now).
			Delete(&ParticipantClaim{}).Error
	})
}

// Get returns the claim for (room, participant), expired or not, or
// ErrNotFound. Validity checks belong to the caller.
func (s *ClaimStorage) Get(ctx context.Context, roomID, participantID uint) (*ParticipantClaim, error) {
	var claim ParticipantClaim
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("room_id = ? AND participant_id = ?", roomID, participantID).
			First(&claim).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// Upsert creates or renews the claim for (room, participant). The unique
// index turns a lost race between two first-time claimants into a conflict
// update instead of a duplicate row.
func (s *ClaimStorage) Upsert(ctx context.Context, claim *ParticipantClaim) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"session_id", "expires_at", "updated_at"}),
		}).Create(claim).Error
	})
}
