package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type ChallengeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) ([]*types.Challenge, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Challenge, error)
  GetActive(ctx context.Context, tx *gorm.DB) ([]*types.Challenge, error)
  GetActiveByTypes(ctx context.Context, tx *gorm.DB, challengeTypes []types.ChallengeType, maxDifficulty int) ([]*types.Challenge, error)
}

type challengeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
  repoLog := baseLog.With("repo", "ChallengeRepo")
  return &challengeRepo{db: db, log: repoLog}
}

func (r *challengeRepo) Create(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) ([]*types.Challenge, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(challenges) == 0 {
    return []*types.Challenge{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&challenges).Error; err != nil {
    return nil, err
  }
  return challenges, nil
}

func (r *challengeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Challenge, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Challenge
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetActive returns the active catalog ordered by id for deterministic
// downstream tie-breaking.
func (r *challengeRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]*types.Challenge, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Challenge
  if err := transaction.WithContext(ctx).
    Where("is_active = ?", true).
    Order("id asc").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *challengeRepo) GetActiveByTypes(ctx context.Context, tx *gorm.DB, challengeTypes []types.ChallengeType, maxDifficulty int) ([]*types.Challenge, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Challenge
  if len(challengeTypes) == 0 {
    return results, nil
  }

  q := transaction.WithContext(ctx).
    Where("is_active = ?", true).
    Where("type IN ?", challengeTypes)
  if maxDifficulty > 0 {
    q = q.Where("difficulty <= ?", maxDifficulty)
  }
  if err := q.Order("id asc").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
