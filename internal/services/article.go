package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type ArticleService interface {
  ListArticles(ctx context.Context, biasRating *int, limit int) ([]*types.NewsArticle, error)
  RecordRead(ctx context.Context, userID, articleID uuid.UUID) (*types.UserActivity, error)
}

type articleService struct {
  db         *gorm.DB
  log        *logger.Logger
  articles   repos.NewsArticleRepo
  activities repos.UserActivityRepo
}

func NewArticleService(db *gorm.DB, log *logger.Logger, articles repos.NewsArticleRepo, activities repos.UserActivityRepo) ArticleService {
  serviceLog := log.With("service", "ArticleService")
  return &articleService{db: db, log: serviceLog, articles: articles, activities: activities}
}

func (s *articleService) ListArticles(ctx context.Context, biasRating *int, limit int) ([]*types.NewsArticle, error) {
  if biasRating != nil && (*biasRating < types.BiasRatingMin || *biasRating > types.BiasRatingMax) {
    return nil, fmt.Errorf("bias rating must be within [%d, %d]: %w", types.BiasRatingMin, types.BiasRatingMax, apperr.ErrValidation)
  }
  return s.articles.ListActive(ctx, nil, biasRating, limit)
}

// RecordRead appends an article_read activity, snapshotting the article's
// bias rating so later edits never rewrite history.
func (s *articleService) RecordRead(ctx context.Context, userID, articleID uuid.UUID) (*types.UserActivity, error) {
  found, err := s.articles.GetByIDs(ctx, nil, []uuid.UUID{articleID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load article: %w", err)
  }
  if len(found) == 0 {
    return nil, fmt.Errorf("article %s: %w", articleID, apperr.ErrNotFound)
  }
  article := found[0]
  if !article.IsActive {
    return nil, fmt.Errorf("article %s is not active: %w", articleID, apperr.ErrValidation)
  }
  row := &types.UserActivity{
    ID:           uuid.New(),
    UserID:       userID,
    ArticleID:    article.ID,
    ActivityType: types.ActivityTypeArticleRead,
    BiasRating:   article.BiasRating,
  }
  if _, cErr := s.activities.Create(ctx, nil, []*types.UserActivity{row}); cErr != nil {
    return nil, fmt.Errorf("Failed to record article read: %w", cErr)
  }
  return row, nil
}
