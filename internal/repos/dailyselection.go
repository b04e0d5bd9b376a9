package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type DailySelectionRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyChallengeSelection) error
  GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, selectionDate string) (*types.DailyChallengeSelection, error)
}

type dailySelectionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDailySelectionRepo(db *gorm.DB, baseLog *logger.Logger) DailySelectionRepo {
  repoLog := baseLog.With("repo", "DailySelectionRepo")
  return &dailySelectionRepo{db: db, log: repoLog}
}

// Upsert by unique user_id + selection_date. Same-day recomputation
// overwrites the previous pick.
func (r *dailySelectionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyChallengeSelection) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND selection_date = ?", row.UserID, row.SelectionDate).
    Assign(map[string]interface{}{
      "challenge_id": row.ChallengeID,
      "reasons":      row.Reasons,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *dailySelectionRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, selectionDate string) (*types.DailyChallengeSelection, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.DailyChallengeSelection
  err := transaction.WithContext(ctx).
    Where("user_id = ? AND selection_date = ?", userID, selectionDate).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}
