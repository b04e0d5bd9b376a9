package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type NewsArticleRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.NewsArticle) ([]*types.NewsArticle, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.NewsArticle, error)
  ListActive(ctx context.Context, tx *gorm.DB, biasRating *int, limit int) ([]*types.NewsArticle, error)
}

type newsArticleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewNewsArticleRepo(db *gorm.DB, baseLog *logger.Logger) NewsArticleRepo {
  repoLog := baseLog.With("repo", "NewsArticleRepo")
  return &newsArticleRepo{db: db, log: repoLog}
}

func (r *newsArticleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.NewsArticle) ([]*types.NewsArticle, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.NewsArticle{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *newsArticleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.NewsArticle, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.NewsArticle
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

func (r *newsArticleRepo) ListActive(ctx context.Context, tx *gorm.DB, biasRating *int, limit int) ([]*types.NewsArticle, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if limit <= 0 || limit > 100 {
    limit = 20
  }

  var results []*types.NewsArticle
  q := transaction.WithContext(ctx).Where("is_active = ?", true)
  if biasRating != nil {
    q = q.Where("bias_rating = ?", *biasRating)
  }
  if err := q.Order("published_at desc").Limit(limit).Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
