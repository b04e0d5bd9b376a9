package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bias ratings run -3 (strongly left) through +3 (strongly right), giving
// seven buckets across the spectrum.
const (
	BiasRatingMin   = -3
	BiasRatingMax   = 3
	BiasBucketCount = BiasRatingMax - BiasRatingMin + 1
)

type NewsArticle struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	SourceName  string         `gorm:"column:source_name;not null;index" json:"source_name"`
	URL         string         `gorm:"column:url;not null" json:"url"`
	Summary     string         `gorm:"column:summary" json:"summary,omitempty"`
	BiasRating  int            `gorm:"column:bias_rating;not null;default:0;index" json:"bias_rating"`
	PublishedAt time.Time      `gorm:"column:published_at;not null;default:now()" json:"published_at"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NewsArticle) TableName() string {
	return "news_article"
}
