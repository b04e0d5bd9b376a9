package utils

import (
  "context"
  "fmt"
  "golang.org/x/crypto/bcrypt"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/normalization"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/types"
)

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, log *logger.Logger, user *types.User) error {
  if user == nil {
    return fmt.Errorf("no user given: %w", apperr.ErrValidation)
  }
  if user.Email == "" {
    return fmt.Errorf("an email is required to register: %w", apperr.ErrValidation)
  }
  if user.Password == "" {
    return fmt.Errorf("a password is required to register: %w", apperr.ErrValidation)
  }
  if user.FirstName == "" {
    return fmt.Errorf("a first name is required to register: %w", apperr.ErrValidation)
  }
  if user.LastName == "" {
    return fmt.Errorf("a last name is required to register: %w", apperr.ErrValidation)
  }
  emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return fmt.Errorf("Failed to check user email: %w", err)
  }
  if emailExists {
    return fmt.Errorf("email is already in use: %w", apperr.ErrValidation)
  }
  return nil
}

func ValidateLogin(email, password string) error {
  if email == "" {
    return fmt.Errorf("email is required to login: %w", apperr.ErrValidation)
  }
  if password == "" {
    return fmt.Errorf("password is required to login: %w", apperr.ErrValidation)
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return fmt.Errorf("Failed to hash password: %w", err)
  }
  user.Password = string(hashedPassword)
  return nil
}

func NormalizeUserFields(ctx context.Context, user *types.User) {
  user.Email = normalization.ParseInputString(user.Email)
  user.FirstName = normalization.ParseInputString(user.FirstName)
  user.LastName = normalization.ParseInputString(user.LastName)
}
