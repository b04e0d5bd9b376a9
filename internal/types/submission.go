package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Submission is append-only. One row per attempt; repeated attempts on the
// same challenge get increasing Attempts values and are scored independently.
type Submission struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_submission_user_created" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ChallengeID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"challenge_id"`
	Challenge        *Challenge     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"challenge,omitempty"`
	UserAnswer       datatypes.JSON `gorm:"type:jsonb;column:user_answer" json:"user_answer"`
	IsCorrect        bool           `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	TimeSpentSeconds int            `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`
	Attempts         int            `gorm:"column:attempts;not null;default:1" json:"attempts"`
	XPEarned         int            `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	CreatedAt        time.Time      `gorm:"not null;default:now();index:idx_submission_user_created" json:"created_at"`
}

func (Submission) TableName() string {
	return "submission"
}
