package handlers

import (
  "fmt"
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/requestdata"
  "github.com/perspective-app/perspective-backend/internal/services"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type ChallengeHandler struct {
  challengeService  services.ChallengeService
}

func NewChallengeHandler(challengeService services.ChallengeService) *ChallengeHandler {
  return &ChallengeHandler{challengeService: challengeService}
}

func (ch *ChallengeHandler) GetToday(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, apperr.ErrUnauthorized)
    return
  }
  challenge, err := ch.challengeService.GetTodayChallenge(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, err)
    return
  }
  if challenge == nil {
    c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "no challenge available today", Code: "NOT_FOUND"}})
    return
  }
  RespondOK(c, gin.H{"challenge": challenge})
}

func (ch *ChallengeHandler) ListByType(c *gin.Context) {
  challengeType := types.ChallengeType(c.Query("type"))
  maxDifficulty := 0
  if raw := c.Query("max_difficulty"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil {
      RespondError(c, fmt.Errorf("max_difficulty must be an integer: %w", apperr.ErrValidation))
      return
    }
    maxDifficulty = parsed
  }
  challenges, err := ch.challengeService.ListByType(c.Request.Context(), challengeType, maxDifficulty)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"challenges": challenges})
}

func (ch *ChallengeHandler) GetByID(c *gin.Context) {
  challengeID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, fmt.Errorf("invalid challenge id: %w", apperr.ErrValidation))
    return
  }
  challenge, err := ch.challengeService.GetByID(c.Request.Context(), challengeID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"challenge": challenge})
}
