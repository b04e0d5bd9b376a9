package handlers

import (
  "fmt"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/requestdata"
  "github.com/perspective-app/perspective-backend/internal/services"
)

type EchoScoreHandler struct {
  echoScoreService  services.EchoScoreService
}

func NewEchoScoreHandler(echoScoreService services.EchoScoreService) *EchoScoreHandler {
  return &EchoScoreHandler{echoScoreService: echoScoreService}
}

func (eh *EchoScoreHandler) GetCurrent(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  latest, err := eh.echoScoreService.Latest(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  if latest == nil {
    RespondError(c, fmt.Errorf("no echo score calculated yet: %w", apperr.ErrNotFound))
    return
  }
  RespondOK(c, gin.H{"echo_score": latest})
}

func (eh *EchoScoreHandler) Calculate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  days, err := parseDays(c, 0)
  if err != nil {
    RespondError(c, err)
    return
  }
  result, err := eh.echoScoreService.CalculateAndSave(c.Request.Context(), rd.UserID, days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"echo_score": result})
}

func (eh *EchoScoreHandler) GetHistory(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  days, err := parseDays(c, 30)
  if err != nil {
    RespondError(c, err)
    return
  }
  history, err := eh.echoScoreService.History(c.Request.Context(), rd.UserID, days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"history": history})
}

func (eh *EchoScoreHandler) GetProgress(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  days, err := parseDays(c, 30)
  if err != nil {
    RespondError(c, err)
    return
  }
  progress, err := eh.echoScoreService.Progress(c.Request.Context(), rd.UserID, days)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"progress": progress})
}

func parseDays(c *gin.Context, fallback int) (int, error) {
  raw := c.Query("days")
  if raw == "" {
    return fallback, nil
  }
  days, err := strconv.Atoi(raw)
  if err != nil || days < 0 {
    return 0, fmt.Errorf("days must be a non-negative integer: %w", apperr.ErrValidation)
  }
  return days, nil
}
