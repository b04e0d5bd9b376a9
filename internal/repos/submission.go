package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type SubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Submission) ([]*types.Submission, error)
  GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Submission, error)
  GetByUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.Submission, error)
  CountAttempts(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (int64, error)
  CorrectExistsBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (bool, error)
}

type submissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
  repoLog := baseLog.With("repo", "SubmissionRepo")
  return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Submission) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Submission{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *submissionRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Submission
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

func (r *submissionRepo) GetByUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.Submission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Submission
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
    Order("created_at asc").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *submissionRepo) CountAttempts(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Submission{}).
    Where("user_id = ? AND challenge_id = ?", userID, challengeID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *submissionRepo) CorrectExistsBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Submission{}).
    Where("user_id = ? AND is_correct = ? AND created_at >= ? AND created_at < ?", userID, true, from, to).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
