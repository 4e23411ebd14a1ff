package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteStorage struct {
	store *Store
}

// Upsert records the vote for (round, participant), overwriting any prior
// value. Last write wins while the round is VOTING; the API layer rejects
// writes once the round is REVEALED.
func (s *VoteStorage) Upsert(ctx context.Context, vote *PokerVote) error {
	return s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}, {Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(vote).Error
	})
}

func (s *VoteStorage) ListByRound(ctx context.Context, roundID uint) ([]PokerVote, error) {
	var votes []PokerVote
	err := s.store.do(func(conn *gorm.DB) error {
		return conn.WithContext(ctx).
			Where("round_id = ?", roundID).
			Order("created_at ASC, id ASC").
			Find(&votes).Error
	})
	if err != nil {
		return nil, err
	}
	return votes, nil
}
