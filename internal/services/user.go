package services

import (
  "context"
  "encoding/json"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/requestdata"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type BiasProfileUpdate struct {
  BiasLean         *float64 `json:"bias_lean,omitempty"`
  PreferredSources []string `json:"preferred_sources,omitempty"`
  BlindSpots       []string `json:"blind_spots,omitempty"`
}

type UserService interface {
  GetMe(ctx context.Context) (*types.User, error)
  UpdateBiasProfile(ctx context.Context, update BiasProfileUpdate) (*types.User, error)
  DeactivateMe(ctx context.Context) error
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, fmt.Errorf("no request data in context: %w", apperr.ErrUnauthorized)
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("user %s: %w", rd.UserID, apperr.ErrNotFound)
  }
  return users[0], nil
}

func (us *userService) UpdateBiasProfile(ctx context.Context, update BiasProfileUpdate) (*types.User, error) {
  me, err := us.GetMe(ctx)
  if err != nil {
    return nil, err
  }
  fields := map[string]interface{}{}
  if update.BiasLean != nil {
    if *update.BiasLean < float64(types.BiasRatingMin) || *update.BiasLean > float64(types.BiasRatingMax) {
      return nil, fmt.Errorf("bias_lean must be within [%d, %d]: %w", types.BiasRatingMin, types.BiasRatingMax, apperr.ErrValidation)
    }
    fields["bias_lean"] = *update.BiasLean
  }
  if update.PreferredSources != nil {
    raw, jErr := json.Marshal(update.PreferredSources)
    if jErr != nil {
      return nil, fmt.Errorf("Failed to marshal preferred sources: %w", jErr)
    }
    fields["preferred_sources"] = raw
  }
  if update.BlindSpots != nil {
    raw, jErr := json.Marshal(update.BlindSpots)
    if jErr != nil {
      return nil, fmt.Errorf("Failed to marshal blind spots: %w", jErr)
    }
    fields["blind_spots"] = raw
  }
  if len(fields) == 0 {
    return me, nil
  }
  if err := us.userRepo.UpdateFields(ctx, nil, me.ID, fields); err != nil {
    return nil, fmt.Errorf("Failed to update bias profile: %w", err)
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{me.ID})
  if err != nil || len(users) == 0 {
    return me, nil
  }
  return users[0], nil
}

// DeactivateMe soft-deactivates the account. Users are never hard deleted.
func (us *userService) DeactivateMe(ctx context.Context) error {
  me, err := us.GetMe(ctx)
  if err != nil {
    return err
  }
  return us.userRepo.UpdateFields(ctx, nil, me.ID, map[string]interface{}{"is_active": false})
}
