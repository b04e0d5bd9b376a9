package handlers

import (
  "fmt"
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/requestdata"
  "github.com/perspective-app/perspective-backend/internal/services"
)

type ProgressHandler struct {
  adaptiveService   services.AdaptiveService
}

func NewProgressHandler(adaptiveService services.AdaptiveService) *ProgressHandler {
  return &ProgressHandler{adaptiveService: adaptiveService}
}

func (ph *ProgressHandler) GetProgress(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  report, err := ph.adaptiveService.AnalyzeUserProgress(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"progress": report})
}

func (ph *ProgressHandler) GetRecommendations(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  count := 5
  if raw := c.Query("count"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil || parsed <= 0 {
      RespondError(c, fmt.Errorf("count must be a positive integer: %w", apperr.ErrValidation))
      return
    }
    count = parsed
  }
  recommendations, err := ph.adaptiveService.GetAdaptiveChallengeRecommendations(c.Request.Context(), rd.UserID, count)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"recommendations": recommendations})
}

func (ph *ProgressHandler) GetNextChallenge(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  challenge, err := ph.adaptiveService.GetNextChallengeForUser(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  if challenge == nil {
    c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "no eligible challenge found", Code: "NOT_FOUND"}})
    return
  }
  RespondOK(c, gin.H{"challenge": challenge})
}
