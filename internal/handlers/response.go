package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/perspective-app/perspective-backend/internal/apperr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(statusFor(err), ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    apperr.Code(err),
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func statusFor(err error) int {
  switch {
  case errors.Is(err, apperr.ErrValidation):
    return http.StatusBadRequest
  case errors.Is(err, apperr.ErrNotFound):
    return http.StatusNotFound
  case errors.Is(err, apperr.ErrUnauthorized):
    return http.StatusUnauthorized
  case errors.Is(err, apperr.ErrForbidden):
    return http.StatusForbidden
  default:
    return http.StatusInternalServerError
  }
}
