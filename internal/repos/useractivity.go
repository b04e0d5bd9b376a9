package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type UserActivityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.UserActivity) ([]*types.UserActivity, error)
  GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserActivity, error)
}

type userActivityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
  repoLog := baseLog.With("repo", "UserActivityRepo")
  return &userActivityRepo{db: db, log: repoLog}
}

func (r *userActivityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserActivity) ([]*types.UserActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.UserActivity{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *userActivityRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserActivity
  if userID == uuid.Nil {
    return results, nil
  }

  q := transaction.WithContext(ctx).Where("user_id = ?", userID)
  if !since.IsZero() {
    q = q.Where("created_at >= ?", since)
  }
  if err := q.Order("created_at asc").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
