package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/clients/redis"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/types"
)

type ChallengeService interface {
  GetByID(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error)
  GetTodayChallenge(ctx context.Context, userID uuid.UUID) (*types.Challenge, error)
  ListByType(ctx context.Context, challengeType types.ChallengeType, maxDifficulty int) ([]*types.Challenge, error)
}

type challengeService struct {
  db         *gorm.DB
  log        *logger.Logger
  challenges repos.ChallengeRepo
  selections repos.DailySelectionRepo
  adaptive   AdaptiveService
  dailyCache redis.DailySelectionCache
}

func NewChallengeService(
  db *gorm.DB,
  log *logger.Logger,
  challenges repos.ChallengeRepo,
  selections repos.DailySelectionRepo,
  adaptive AdaptiveService,
  dailyCache redis.DailySelectionCache,
) ChallengeService {
  serviceLog := log.With("service", "ChallengeService")
  return &challengeService{
    db:         db,
    log:        serviceLog,
    challenges: challenges,
    selections: selections,
    adaptive:   adaptive,
    dailyCache: dailyCache,
  }
}

func (cs *challengeService) GetByID(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error) {
  found, err := cs.challenges.GetByIDs(ctx, nil, []uuid.UUID{challengeID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load challenge: %w", err)
  }
  if len(found) == 0 {
    return nil, fmt.Errorf("challenge %s: %w", challengeID, apperr.ErrNotFound)
  }
  challenge := found[0]
  if _, dErr := challenge.DecodeContent(); dErr != nil {
    return nil, fmt.Errorf("Challenge %s has malformed content: %w", challengeID, dErr)
  }
  return challenge, nil
}

func (cs *challengeService) ListByType(ctx context.Context, challengeType types.ChallengeType, maxDifficulty int) ([]*types.Challenge, error) {
  if !challengeType.Valid() {
    return nil, fmt.Errorf("unknown challenge type %q: %w", challengeType, apperr.ErrValidation)
  }
  if maxDifficulty == 0 {
    maxDifficulty = types.MaxDifficulty
  }
  if maxDifficulty < types.MinDifficulty || maxDifficulty > types.MaxDifficulty {
    return nil, fmt.Errorf("max difficulty must be within [%d, %d]: %w", types.MinDifficulty, types.MaxDifficulty, apperr.ErrValidation)
  }
  return cs.challenges.GetActiveByTypes(ctx, nil, []types.ChallengeType{challengeType}, maxDifficulty)
}

// GetTodayChallenge resolves the user's challenge of the day: cache first,
// then the recorded selection, then a fresh adaptive pick which is recorded
// for audit. Returns nil when no eligible challenge exists.
func (cs *challengeService) GetTodayChallenge(ctx context.Context, userID uuid.UUID) (*types.Challenge, error) {
  selectionDate := time.Now().Format("2006-01-02")

  if cs.dailyCache != nil {
    if id, ok, err := cs.dailyCache.GetSelection(ctx, userID, selectionDate); err == nil && ok {
      if challenge, cErr := cs.lookupActive(ctx, id); cErr == nil && challenge != nil {
        return challenge, nil
      }
    } else if err != nil {
      cs.log.Debug("Daily selection cache read failed", "error", err)
    }
  }

  existing, err := cs.selections.GetByUserAndDate(ctx, nil, userID, selectionDate)
  if err != nil {
    return nil, fmt.Errorf("Failed to load daily selection: %w", err)
  }
  if existing != nil {
    challenge, cErr := cs.lookupActive(ctx, existing.ChallengeID)
    if cErr != nil {
      return nil, cErr
    }
    if challenge != nil {
      if cs.dailyCache != nil {
        _ = cs.dailyCache.SetSelection(ctx, userID, selectionDate, challenge.ID)
      }
      return challenge, nil
    }
  }

  picked, err := cs.adaptive.GetNextChallengeForUser(ctx, userID)
  if err != nil {
    return nil, err
  }
  if picked == nil {
    return nil, nil
  }

  reasons, _ := json.Marshal([]string{"daily adaptive pick"})
  row := &types.DailyChallengeSelection{
    ID:            uuid.New(),
    UserID:        userID,
    ChallengeID:   picked.ID,
    SelectionDate: selectionDate,
    Reasons:       reasons,
  }
  if uErr := cs.selections.Upsert(ctx, nil, row); uErr != nil {
    cs.log.Warn("Failed to record daily selection", "user_id", userID.String(), "error", uErr)
  }
  if cs.dailyCache != nil {
    _ = cs.dailyCache.SetSelection(ctx, userID, selectionDate, picked.ID)
  }
  return picked, nil
}

func (cs *challengeService) lookupActive(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error) {
  found, err := cs.challenges.GetByIDs(ctx, nil, []uuid.UUID{challengeID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load challenge: %w", err)
  }
  if len(found) == 0 || !found[0].IsActive {
    return nil, nil
  }
  if _, dErr := found[0].DecodeContent(); dErr != nil {
    cs.log.Warn("Skipping challenge with malformed content", "challenge_id", found[0].ID.String(), "error", dErr)
    return nil, nil
  }
  return found[0], nil
}
