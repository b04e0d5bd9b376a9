package types

import (
	"encoding/json"
	"fmt"
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChallengeType string

const (
	ChallengeTypeBiasSwap         ChallengeType = "bias_swap"
	ChallengeTypeLogicPuzzle      ChallengeType = "logic_puzzle"
	ChallengeTypeSynthesis        ChallengeType = "synthesis"
	ChallengeTypeDataLiteracy     ChallengeType = "data_literacy"
	ChallengeTypeEthicalDilemma   ChallengeType = "ethical_dilemma"
	ChallengeTypeCounterArgument  ChallengeType = "counter_argument"
	ChallengeTypeFallacyDetection ChallengeType = "fallacy_detection"
)

// AllChallengeTypes is the fixed catalog order, also used for round-robin
// fallback when a user has no history yet.
var AllChallengeTypes = []ChallengeType{
	ChallengeTypeBiasSwap,
	ChallengeTypeLogicPuzzle,
	ChallengeTypeSynthesis,
	ChallengeTypeDataLiteracy,
	ChallengeTypeEthicalDilemma,
	ChallengeTypeCounterArgument,
	ChallengeTypeFallacyDetection,
}

func (ct ChallengeType) Valid() bool {
	for _, t := range AllChallengeTypes {
		if t == ct {
			return true
		}
	}
	return false
}

const (
	MinDifficulty = 1
	MaxDifficulty = 4
)

type Challenge struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type                 ChallengeType  `gorm:"column:type;not null;index" json:"type"`
	Title                string         `gorm:"column:title;not null" json:"title"`
	Difficulty           int            `gorm:"column:difficulty;not null;default:1" json:"difficulty"`
	Content              datatypes.JSON `gorm:"type:jsonb;column:content;not null" json:"content"`
	CorrectAnswer        datatypes.JSON `gorm:"type:jsonb;column:correct_answer" json:"-"`
	Explanation          string         `gorm:"column:explanation" json:"explanation,omitempty"`
	XPReward             int            `gorm:"column:xp_reward;not null;default:10" json:"xp_reward"`
	EstimatedTimeMinutes int            `gorm:"column:estimated_time_minutes;not null;default:5" json:"estimated_time_minutes"`
	IsActive             bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Challenge) TableName() string {
	return "challenge"
}

// ChallengeContent is the decoded form of the content jsonb column. Exactly
// one variant is populated, matching the challenge type.
type ChallengeContent struct {
	Prompt   string             `json:"prompt"`
	Options  []ChallengeOption  `json:"options,omitempty"`
	Articles []ContentArticle   `json:"articles,omitempty"`
	Scenario string             `json:"scenario,omitempty"`
}

type ChallengeOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ContentArticle struct {
	Title      string `json:"title"`
	SourceName string `json:"source_name"`
	BiasRating int    `json:"bias_rating"`
	Excerpt    string `json:"excerpt,omitempty"`
}

// DecodeContent parses and validates the content payload against the
// challenge type. Unrecognized shapes are rejected at the boundary instead
// of flowing through as untyped maps.
func (c *Challenge) DecodeContent() (*ChallengeContent, error) {
	var content ChallengeContent
	if err := json.Unmarshal(c.Content, &content); err != nil {
		return nil, fmt.Errorf("decode challenge content: %w", err)
	}
	if content.Prompt == "" {
		return nil, fmt.Errorf("challenge content missing prompt")
	}
	switch c.Type {
	case ChallengeTypeLogicPuzzle, ChallengeTypeDataLiteracy, ChallengeTypeFallacyDetection:
		if len(content.Options) < 2 {
			return nil, fmt.Errorf("challenge type %s requires at least 2 options", c.Type)
		}
	case ChallengeTypeBiasSwap, ChallengeTypeSynthesis:
		if len(content.Articles) == 0 {
			return nil, fmt.Errorf("challenge type %s requires an article set", c.Type)
		}
	case ChallengeTypeEthicalDilemma, ChallengeTypeCounterArgument:
		if content.Scenario == "" && len(content.Options) == 0 {
			return nil, fmt.Errorf("challenge type %s requires a scenario", c.Type)
		}
	default:
		return nil, fmt.Errorf("unknown challenge type %q", c.Type)
	}
	return &content, nil
}
