package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EchoScoreHistory is append-only; one row per scoring run. The user's
// cached echo_score column mirrors the most recent row's total.
type EchoScoreHistory struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_echo_history_user_date" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	DiversityScore     float64        `gorm:"column:diversity_score;not null;default:0" json:"diversity_score"`
	AccuracyScore      float64        `gorm:"column:accuracy_score;not null;default:0" json:"accuracy_score"`
	SwitchSpeedScore   float64        `gorm:"column:switch_speed_score;not null;default:0" json:"switch_speed_score"`
	ConsistencyScore   float64        `gorm:"column:consistency_score;not null;default:0" json:"consistency_score"`
	ImprovementScore   float64        `gorm:"column:improvement_score;not null;default:0" json:"improvement_score"`
	TotalScore         int            `gorm:"column:total_score;not null;default:0" json:"total_score"`
	CalculationDetails datatypes.JSON `gorm:"type:jsonb;column:calculation_details" json:"calculation_details"`
	ScoreDate          time.Time      `gorm:"column:score_date;not null;default:now();index:idx_echo_history_user_date" json:"score_date"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (EchoScoreHistory) TableName() string {
	return "echo_score_history"
}
