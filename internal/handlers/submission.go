package handlers

import (
  "fmt"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/requestdata"
  "github.com/perspective-app/perspective-backend/internal/services"
)

type SubmissionHandler struct {
  submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService) *SubmissionHandler {
  return &SubmissionHandler{submissionService: submissionService}
}

func (sh *SubmissionHandler) Submit(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  challengeID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, fmt.Errorf("invalid challenge id: %w", apperr.ErrValidation))
    return
  }
  var req services.SubmitRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrValidation))
    return
  }
  req.ChallengeID = challengeID
  result, err := sh.submissionService.Submit(c.Request.Context(), rd.UserID, req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"result": result})
}

func (sh *SubmissionHandler) GetStreak(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  streak, err := sh.submissionService.GetStreakInfo(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"streak_info": streak})
}

func (sh *SubmissionHandler) SubmitBatch(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  var req struct {
    Submissions []services.SubmitRequest `json:"submissions"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrValidation))
    return
  }
  results, err := sh.submissionService.SubmitBatch(c.Request.Context(), rd.UserID, req.Submissions)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"results": results})
}
