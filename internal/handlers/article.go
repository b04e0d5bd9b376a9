package handlers

import (
  "fmt"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/requestdata"
  "github.com/perspective-app/perspective-backend/internal/services"
)

type ArticleHandler struct {
  articleService    services.ArticleService
}

func NewArticleHandler(articleService services.ArticleService) *ArticleHandler {
  return &ArticleHandler{articleService: articleService}
}

func (ah *ArticleHandler) List(c *gin.Context) {
  var biasRating *int
  if raw := c.Query("bias_rating"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil {
      RespondError(c, fmt.Errorf("bias_rating must be an integer: %w", apperr.ErrValidation))
      return
    }
    biasRating = &parsed
  }
  limit := 0
  if raw := c.Query("limit"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil || parsed <= 0 {
      RespondError(c, fmt.Errorf("limit must be a positive integer: %w", apperr.ErrValidation))
      return
    }
    limit = parsed
  }
  articles, err := ah.articleService.ListArticles(c.Request.Context(), biasRating, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"articles": articles})
}

func (ah *ArticleHandler) RecordRead(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  articleID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, fmt.Errorf("invalid article id: %w", apperr.ErrValidation))
    return
  }
  activity, err := ah.articleService.RecordRead(c.Request.Context(), rd.UserID, articleID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"activity": activity})
}
