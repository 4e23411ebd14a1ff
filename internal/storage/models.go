package storage

import "time"

// Round statuses.
const (
	RoundVoting   = "VOTING"
	RoundRevealed = "REVEALED"
)

// Impediment statuses.
const (
	ImpedimentGreen  = "GREEN"
	ImpedimentYellow = "YELLOW"
	ImpedimentRed    = "RED"
)

type Room struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Slug         string    `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	PasscodeHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`

	Participants []Participant      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	History      []SpinHistory      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rounds       []PokerRound       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Claims       []ParticipantClaim `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Impediments  []Impediment       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Participant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoomID       uint      `gorm:"index;not null" json:"roomId"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	IsPresent    bool      `gorm:"not null;default:true" json:"isPresent"`
	PokerEnabled bool      `gorm:"not null;default:false" json:"pokerEnabled"`
	WinCount     int       `gorm:"not null;default:0" json:"winCount"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

// ParticipantClaim binds a browser session to a participant slot until
// ExpiresAt. The (room, participant) unique index is what closes the
// concurrent first-claim race: the second insert fails at the store and is
// re-handled as renew-or-conflict.
type ParticipantClaim struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoomID        uint      `gorm:"not null;uniqueIndex:idx_claims_room_participant" json:"roomId"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_claims_room_participant" json:"participantId"`
	SessionID     string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt     time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

type SpinHistory struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	RoomID        uint        `gorm:"index;not null" json:"roomId"`
	ParticipantID uint        `gorm:"index;not null" json:"participantId"`
	CreatedAt     time.Time   `gorm:"not null" json:"createdAt"`
	Participant   Participant `gorm:"constraint:OnDelete:CASCADE" json:"participant"`
}

type PokerRound struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"index;not null" json:"roomId"`
	Status    string    `gorm:"size:16;not null;default:VOTING" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	Votes []PokerVote `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE" json:"-"`
}

type PokerVote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoundID       uint      `gorm:"not null;uniqueIndex:idx_votes_round_participant" json:"roundId"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_votes_round_participant" json:"participantId"`
	Value         string    `gorm:"size:8;not null" json:"value"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

// Impediment is one participant's status for one calendar day. Date is the
// UTC midnight of the local calendar day (see the dates package).
type Impediment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RoomID        uint       `gorm:"index;not null" json:"roomId"`
	ParticipantID uint       `gorm:"not null;uniqueIndex:idx_impediments_participant_date" json:"participantId"`
	Date          time.Time  `gorm:"not null;uniqueIndex:idx_impediments_participant_date" json:"date"`
	Status        string     `gorm:"size:8;not null" json:"status"`
	Description   *string    `gorm:"size:100" json:"description"`
	ResolvedAt    *time.Time `json:"resolvedAt"`
	CreatedAt     time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updatedAt"`
}
