package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type EchoScoreHistoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.EchoScoreHistory) ([]*types.EchoScoreHistory, error)
  GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.EchoScoreHistory, error)
  GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.EchoScoreHistory, error)
}

type echoScoreHistoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEchoScoreHistoryRepo(db *gorm.DB, baseLog *logger.Logger) EchoScoreHistoryRepo {
  repoLog := baseLog.With("repo", "EchoScoreHistoryRepo")
  return &echoScoreHistoryRepo{db: db, log: repoLog}
}

func (r *echoScoreHistoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.EchoScoreHistory) ([]*types.EchoScoreHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.EchoScoreHistory{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *echoScoreHistoryRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.EchoScoreHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.EchoScoreHistory
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("score_date desc").
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *echoScoreHistoryRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.EchoScoreHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.EchoScoreHistory
  q := transaction.WithContext(ctx).Where("user_id = ?", userID)
  if !since.IsZero() {
    q = q.Where("score_date >= ?", since)
  }
  if err := q.Order("score_date asc").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
