package types

import (
	"time"
	"github.com/google/uuid"
)

// UserChallengeStats is the per-(user, challenge type) aggregate maintained
// inside the submission transaction and read by the adaptive engine.
type UserChallengeStats struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index:idx_user_challenge_type,unique" json:"user_id"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ChallengeType  ChallengeType `gorm:"column:challenge_type;not null;index:idx_user_challenge_type,unique" json:"challenge_type"`
	TotalAttempts  int           `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	CorrectAttempts int          `gorm:"column:correct_attempts;not null;default:0" json:"correct_attempts"`
	TotalXP        int           `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	LastAttemptAt  *time.Time    `gorm:"column:last_attempt_at" json:"last_attempt_at,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserChallengeStats) TableName() string {
	return "user_challenge_stats"
}

func (s *UserChallengeStats) Accuracy() float64 {
	if s == nil || s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.CorrectAttempts) / float64(s.TotalAttempts)
}
