package handlers

import (
  "fmt"
  "github.com/gin-gonic/gin"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/services"
)

type UserHandler struct {
  userService     services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  me, err := uh.userService.GetMe(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

func (uh *UserHandler) UpdateBiasProfile(c *gin.Context) {
  var req services.BiasProfileUpdate
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, fmt.Errorf("invalid request body: %w", apperr.ErrValidation))
    return
  }
  me, err := uh.userService.UpdateBiasProfile(c.Request.Context(), req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

func (uh *UserHandler) Deactivate(c *gin.Context) {
  if err := uh.userService.DeactivateMe(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
