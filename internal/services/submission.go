package services

import (
  "context"
  "encoding/json"
  "fmt"
  "math"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/apperr"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/normalization"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/types"
)

const (
  // Streak bonus: +10% per 5 full streak days, capped at +50%.
  streakBonusPerBlock = 0.10
  streakBlockDays     = 5
  streakBonusCap      = 0.50

  MaxBatchSize = 10
)

type SubmitRequest struct {
  ChallengeID      uuid.UUID   `json:"challenge_id"`
  Answer           interface{} `json:"answer"`
  TimeSpentSeconds int         `json:"time_spent_seconds"`
}

type StreakInfo struct {
  Current       int  `json:"current"`
  Longest       int  `json:"longest"`
  IsActiveToday bool `json:"is_active_today"`
}

type SubmitResult struct {
  IsCorrect bool       `json:"is_correct"`
  Feedback  string     `json:"feedback"`
  XPEarned  int        `json:"xp_earned"`
  Streak    StreakInfo `json:"streak_info"`
}

type BatchItemResult struct {
  Index  int           `json:"index"`
  Result *SubmitResult `json:"result,omitempty"`
  Error  string        `json:"error,omitempty"`
  Code   string        `json:"code,omitempty"`
}

type SubmissionService interface {
  Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*SubmitResult, error)
  SubmitBatch(ctx context.Context, userID uuid.UUID, reqs []SubmitRequest) ([]BatchItemResult, error)
  GetStreakInfo(ctx context.Context, userID uuid.UUID) (*StreakInfo, error)
}

type submissionService struct {
  db          *gorm.DB
  log         *logger.Logger
  userRepo    repos.UserRepo
  challenges  repos.ChallengeRepo
  submissions repos.SubmissionRepo
  stats       repos.UserChallengeStatsRepo
}

func NewSubmissionService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  challenges repos.ChallengeRepo,
  submissions repos.SubmissionRepo,
  stats repos.UserChallengeStatsRepo,
) SubmissionService {
  serviceLog := log.With("service", "SubmissionService")
  return &submissionService{
    db:          db,
    log:         serviceLog,
    userRepo:    userRepo,
    challenges:  challenges,
    submissions: submissions,
    stats:       stats,
  }
}

// Submit processes one answer end to end in a single transaction. The user
// row is locked first so concurrent submissions from the same user
// serialize; different users never contend.
func (ss *submissionService) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*SubmitResult, error) {
  if req.TimeSpentSeconds < 0 {
    return nil, fmt.Errorf("time_spent_seconds must not be negative: %w", apperr.ErrValidation)
  }
  if req.ChallengeID == uuid.Nil {
    return nil, fmt.Errorf("challenge_id is required: %w", apperr.ErrValidation)
  }
  if req.Answer == nil {
    return nil, fmt.Errorf("answer is required: %w", apperr.ErrValidation)
  }

  var result *SubmitResult
  err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user, uErr := ss.userRepo.GetByIDForUpdate(ctx, tx, userID)
    if uErr == gorm.ErrRecordNotFound {
      return fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
    }
    if uErr != nil {
      return fmt.Errorf("Failed to lock user row: %w", uErr)
    }

    found, cErr := ss.challenges.GetByIDs(ctx, tx, []uuid.UUID{req.ChallengeID})
    if cErr != nil {
      return fmt.Errorf("Failed to load challenge: %w", cErr)
    }
    if len(found) == 0 {
      return fmt.Errorf("challenge %s: %w", req.ChallengeID, apperr.ErrNotFound)
    }
    challenge := found[0]
    if !challenge.IsActive {
      return fmt.Errorf("challenge %s is not active: %w", req.ChallengeID, apperr.ErrValidation)
    }

    var correctAnswer interface{}
    if len(challenge.CorrectAnswer) > 0 {
      if jErr := json.Unmarshal(challenge.CorrectAnswer, &correctAnswer); jErr != nil {
        return fmt.Errorf("Failed to decode correct answer: %w", jErr)
      }
    }
    isCorrect := normalization.AnswersEqual(req.Answer, correctAnswer)

    now := time.Now()
    xp := 0
    if isCorrect {
      xp = computeXP(challenge.XPReward, user.CurrentStreak, req.TimeSpentSeconds, challenge.EstimatedTimeMinutes)
    }

    newStreak := streakAfterSubmission(user.LastCorrectDate, now, user.CurrentStreak, isCorrect)
    newLongest := user.LongestStreak
    if newStreak > newLongest {
      newLongest = newStreak
    }

    priorAttempts, aErr := ss.submissions.CountAttempts(ctx, tx, userID, challenge.ID)
    if aErr != nil {
      return fmt.Errorf("Failed to count prior attempts: %w", aErr)
    }

    answerJSON, jErr := json.Marshal(req.Answer)
    if jErr != nil {
      return fmt.Errorf("Failed to marshal answer: %w", jErr)
    }
    row := &types.Submission{
      ID:               uuid.New(),
      UserID:           userID,
      ChallengeID:      challenge.ID,
      UserAnswer:       answerJSON,
      IsCorrect:        isCorrect,
      TimeSpentSeconds: req.TimeSpentSeconds,
      Attempts:         int(priorAttempts) + 1,
      XPEarned:         xp,
      CreatedAt:        now,
    }
    if _, sErr := ss.submissions.Create(ctx, tx, []*types.Submission{row}); sErr != nil {
      return fmt.Errorf("Failed to persist submission: %w", sErr)
    }

    if stErr := ss.stats.ApplyAttempt(ctx, tx, userID, challenge.Type, isCorrect, xp, now); stErr != nil {
      return fmt.Errorf("Failed to update challenge stats: %w", stErr)
    }

    fields := map[string]interface{}{
      "total_xp": gorm.Expr("total_xp + ?", xp),
    }
    if isCorrect {
      fields["current_streak"] = newStreak
      fields["longest_streak"] = newLongest
      fields["last_correct_date"] = now
    }
    if fErr := ss.userRepo.UpdateFields(ctx, tx, userID, fields); fErr != nil {
      return fmt.Errorf("Failed to update user aggregates: %w", fErr)
    }

    streakInfo := StreakInfo{
      Current:       user.CurrentStreak,
      Longest:       user.LongestStreak,
      IsActiveToday: sameDay(user.LastCorrectDate, now),
    }
    if isCorrect {
      streakInfo.Current = newStreak
      streakInfo.Longest = newLongest
      streakInfo.IsActiveToday = true
    }
    result = &SubmitResult{
      IsCorrect: isCorrect,
      Feedback:  feedbackFor(isCorrect, challenge.Explanation),
      XPEarned:  xp,
      Streak:    streakInfo,
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  ss.log.Info("Submission processed", "user_id", userID.String(), "challenge_id", req.ChallengeID.String(), "correct", result.IsCorrect, "xp", result.XPEarned)
  return result, nil
}

// SubmitBatch processes each item independently. A failing item is reported
// in place and never aborts the rest of the batch.
func (ss *submissionService) SubmitBatch(ctx context.Context, userID uuid.UUID, reqs []SubmitRequest) ([]BatchItemResult, error) {
  if len(reqs) == 0 {
    return nil, fmt.Errorf("batch must not be empty: %w", apperr.ErrValidation)
  }
  if len(reqs) > MaxBatchSize {
    return nil, fmt.Errorf("batch size %d exceeds maximum of %d: %w", len(reqs), MaxBatchSize, apperr.ErrValidation)
  }
  results := make([]BatchItemResult, 0, len(reqs))
  for i, req := range reqs {
    res, err := ss.Submit(ctx, userID, req)
    if err != nil {
      results = append(results, BatchItemResult{Index: i, Error: err.Error(), Code: apperr.Code(err)})
      continue
    }
    results = append(results, BatchItemResult{Index: i, Result: res})
  }
  return results, nil
}

func (ss *submissionService) GetStreakInfo(ctx context.Context, userID uuid.UUID) (*StreakInfo, error) {
  users, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
  }
  user := users[0]

  now := time.Now()
  startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
  activeToday, err := ss.submissions.CorrectExistsBetween(ctx, nil, userID, startOfDay, startOfDay.AddDate(0, 0, 1))
  if err != nil {
    return nil, fmt.Errorf("Failed to check today's submissions: %w", err)
  }
  return &StreakInfo{
    Current:       user.CurrentStreak,
    Longest:       user.LongestStreak,
    IsActiveToday: activeToday,
  }, nil
}

// computeXP applies the streak multiplier and the speed bonus/penalty to
// the challenge's base reward. The streak used is the one in effect before
// this submission.
func computeXP(baseReward, currentStreak, timeSpentSeconds, estimatedMinutes int) int {
  if baseReward <= 0 {
    return 0
  }
  bonus := streakBonusPerBlock * float64(currentStreak/streakBlockDays)
  if bonus > streakBonusCap {
    bonus = streakBonusCap
  }
  multiplier := 1.0 + bonus

  if estimatedMinutes > 0 && timeSpentSeconds > 0 {
    estimated := estimatedMinutes * 60
    switch {
    case timeSpentSeconds*2 <= estimated:
      multiplier *= 1.20
    case timeSpentSeconds <= estimated:
      multiplier *= 1.10
    case timeSpentSeconds > estimated*2:
      multiplier *= 0.90
    }
  }
  return int(math.Round(float64(baseReward) * multiplier))
}

// streakAfterSubmission implements the streak transition. A correct answer
// on the day after the last qualifying day extends the streak; a gap resets
// it to 1 on the next correct answer (reset-to-one policy); repeats within
// the same day never double-count. Incorrect answers leave the streak
// untouched.
func streakAfterSubmission(lastCorrectDate *time.Time, now time.Time, current int, isCorrect bool) int {
  if !isCorrect {
    return current
  }
  if lastCorrectDate == nil {
    return 1
  }
  if sameDay(lastCorrectDate, now) {
    if current == 0 {
      return 1
    }
    return current
  }
  if sameDay(lastCorrectDate, now.AddDate(0, 0, -1)) {
    return current + 1
  }
  return 1
}

func sameDay(t *time.Time, ref time.Time) bool {
  if t == nil {
    return false
  }
  y1, m1, d1 := t.Date()
  y2, m2, d2 := ref.Date()
  return y1 == y2 && m1 == m2 && d1 == d2
}

func feedbackFor(isCorrect bool, explanation string) string {
  if isCorrect {
    if explanation != "" {
      return "Correct! " + explanation
    }
    return "Correct!"
  }
  if explanation != "" {
    return "Not quite. " + explanation
  }
  return "Not quite. Review the material and try again."
}
