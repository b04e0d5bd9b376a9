package types

import (
	"time"
	"github.com/google/uuid"
)

const ActivityTypeArticleRead = "article_read"

// UserActivity records content engagement. The bias rating is snapshotted
// at read time so scoring does not depend on later article edits.
type UserActivity struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_activity_user_created" json:"user_id"`
	User         *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ArticleID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"article_id"`
	Article      *NewsArticle `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArticleID;references:ID" json:"article,omitempty"`
	ActivityType string       `gorm:"column:activity_type;not null;default:'article_read'" json:"activity_type"`
	BiasRating   int          `gorm:"column:bias_rating;not null;default:0" json:"bias_rating"`
	CreatedAt    time.Time    `gorm:"not null;default:now();index:idx_activity_user_created" json:"created_at"`
}

func (UserActivity) TableName() string {
	return "user_activity"
}
