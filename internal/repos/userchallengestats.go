package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type UserChallengeStatsRepo interface {
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserChallengeStats, error)
  ApplyAttempt(ctx context.Context, tx *gorm.DB, userID uuid.UUID, challengeType types.ChallengeType, isCorrect bool, xpEarned int, attemptAt time.Time) error
}

type userChallengeStatsRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserChallengeStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserChallengeStatsRepo {
  repoLog := baseLog.With("repo", "UserChallengeStatsRepo")
  return &userChallengeStatsRepo{db: db, log: repoLog}
}

func (r *userChallengeStatsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserChallengeStats, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserChallengeStats
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ApplyAttempt folds one graded submission into the per-type aggregate.
// Meant to run inside the submission transaction so the counters and the
// submission row commit together.
func (r *userChallengeStatsRepo) ApplyAttempt(ctx context.Context, tx *gorm.DB, userID uuid.UUID, challengeType types.ChallengeType, isCorrect bool, xpEarned int, attemptAt time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var row types.UserChallengeStats
  err := transaction.WithContext(ctx).
    Where("user_id = ? AND challenge_type = ?", userID, challengeType).
    First(&row).Error
  if err == gorm.ErrRecordNotFound {
    row = types.UserChallengeStats{
      ID:            uuid.New(),
      UserID:        userID,
      ChallengeType: challengeType,
    }
    if cErr := transaction.WithContext(ctx).Create(&row).Error; cErr != nil {
      return cErr
    }
  } else if err != nil {
    return err
  }

  updates := map[string]interface{}{
    "total_attempts":  gorm.Expr("total_attempts + 1"),
    "total_xp":        gorm.Expr("total_xp + ?", xpEarned),
    "last_attempt_at": attemptAt,
  }
  if isCorrect {
    updates["correct_attempts"] = gorm.Expr("correct_attempts + 1")
  }
  if err := transaction.WithContext(ctx).
    Model(&types.UserChallengeStats{}).
    Where("id = ?", row.ID).
    Updates(updates).Error; err != nil {
    return err
  }
  return nil
}
