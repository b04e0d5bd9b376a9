package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DailyChallengeSelection records which challenge the adaptive engine chose
// for a user on a given day and why. One row per (user, date); recomputing
// the same day overwrites the row.
type DailyChallengeSelection struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_daily_selection_user_date,unique" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ChallengeID   uuid.UUID      `gorm:"type:uuid;not null" json:"challenge_id"`
	Challenge     *Challenge     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"challenge,omitempty"`
	SelectionDate string         `gorm:"column:selection_date;not null;index:idx_daily_selection_user_date,unique" json:"selection_date"`
	Reasons       datatypes.JSON `gorm:"type:jsonb;column:reasons" json:"reasons"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyChallengeSelection) TableName() string {
	return "daily_challenge_selection"
}
