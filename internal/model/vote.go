package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ModeJewish = "jewish"
	ModeGoy    = "goy"
)

// ValidModes are the two visualization contexts votes can target.
var ValidModes = map[string]bool{
	ModeJewish: true,
	ModeGoy:    true,
}

// Vote records one user's opinion on a cell's score in one voting
// period. The composite unique index is the idempotency guarantee:
// a second vote for the same (user, cell, mode, period) fails with a
// duplicate-key error instead of overwriting.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_votes_unique,unique,priority:1" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	HexID     string    `gorm:"size:20;not null;index:idx_votes_unique,unique,priority:2;index:idx_votes_cell,priority:1" json:"hex_id"`
	Mode      string    `gorm:"size:10;not null;index:idx_votes_unique,unique,priority:3;index:idx_votes_cell,priority:2" json:"mode"`
	VoteValue int       `gorm:"not null" json:"vote_value"`
	PeriodID  string    `gorm:"size:14;not null;index:idx_votes_unique,unique,priority:4" json:"period_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

// CellTally is a per-(cell, mode) vote counter maintained inside the
// vote-submission transaction. The value returned by its atomic upsert
// decides the first-vote bonus, so two concurrent first submissions
// cannot both observe an empty cell.
type CellTally struct {
	HexID      string `gorm:"size:20;primaryKey" json:"hex_id"`
	Mode       string `gorm:"size:10;primaryKey" json:"mode"`
	TotalVotes int64  `gorm:"not null;default:0" json:"total_votes"`
}

func (CellTally) TableName() string {
	return "cell_tallies"
}

// DailyPoint accumulates the points a user earned on one UTC date.
// Capped by the vote service before any vote is written.
type DailyPoint struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Date         string    `gorm:"size:10;primaryKey" json:"date"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailyPoint) TableName() string {
	return "daily_points"
}
