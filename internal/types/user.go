package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string         `gorm:"not null;column:password" json:"-"`
	FirstName        string         `gorm:"not null;column:first_name" json:"first_name"`
	LastName         string         `gorm:"not null;column:last_name" json:"last_name"`
	EchoScore        int            `gorm:"column:echo_score;not null;default:0" json:"echo_score"`
	TotalXP          int            `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	CurrentStreak    int            `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak    int            `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastCorrectDate  *time.Time     `gorm:"column:last_correct_date" json:"last_correct_date,omitempty"`
	BiasLean         float64        `gorm:"column:bias_lean;not null;default:0" json:"bias_lean"`
	PreferredSources datatypes.JSON `gorm:"type:jsonb;column:preferred_sources" json:"preferred_sources,omitempty"`
	BlindSpots       datatypes.JSON `gorm:"type:jsonb;column:blind_spots" json:"blind_spots,omitempty"`
	IsActive         bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "user"
}
