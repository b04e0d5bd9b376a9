package services

import (
  "context"
  "encoding/json"
  "fmt"
  "math"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/types"
)

// Component weights. These must sum to exactly 1.0.
const (
  WeightDiversity   = 0.25
  WeightAccuracy    = 0.25
  WeightSwitchSpeed = 0.20
  WeightConsistency = 0.15
  WeightImprovement = 0.15
)

// Baseline cadence for perspective switching: flipping sides once a day
// scores 100, slower cadences scale down proportionally.
const switchBaselineGap = 24 * time.Hour

const defaultScoreWindowDays = 30

type ScoreComponents struct {
  Diversity   float64 `json:"diversity_score"`
  Accuracy    float64 `json:"accuracy_score"`
  SwitchSpeed float64 `json:"switch_speed_score"`
  Consistency float64 `json:"consistency_score"`
  Improvement float64 `json:"improvement_score"`
}

type CalculationDetails struct {
  ArticlesRead         int     `json:"articles_read"`
  PerspectivesExplored int     `json:"perspectives_explored"`
  ChallengesCompleted  int     `json:"challenges_completed"`
  AccurateAnswers      int     `json:"accurate_answers"`
  TotalAnswers         int     `json:"total_answers"`
  AverageTimeSeconds   float64 `json:"average_time_seconds"`
}

type ScoreResult struct {
  Components ScoreComponents    `json:"components"`
  Total      int                `json:"total_score"`
  Details    CalculationDetails `json:"calculation_details"`
  ScoreDate  time.Time          `json:"score_date"`
}

type ScoreProgress struct {
  Current  *ScoreResult `json:"current"`
  Baseline *ScoreResult `json:"baseline,omitempty"`
  Delta    int          `json:"delta"`
}

type SubmissionSample struct {
  IsCorrect        bool
  TimeSpentSeconds int
  CreatedAt        time.Time
}

type ActivitySample struct {
  BiasRating int
  CreatedAt  time.Time
}

type ScoreInputs struct {
  WindowDays  int
  Now         time.Time
  Submissions []SubmissionSample
  Activities  []ActivitySample
}

type EchoScoreService interface {
  Calculate(ctx context.Context, userID uuid.UUID, days int) (*ScoreResult, error)
  CalculateAndSave(ctx context.Context, userID uuid.UUID, days int) (*ScoreResult, error)
  Latest(ctx context.Context, userID uuid.UUID) (*types.EchoScoreHistory, error)
  History(ctx context.Context, userID uuid.UUID, days int) ([]*types.EchoScoreHistory, error)
  Progress(ctx context.Context, userID uuid.UUID, days int) (*ScoreProgress, error)
}

type echoScoreService struct {
  db          *gorm.DB
  log         *logger.Logger
  userRepo    repos.UserRepo
  submissions repos.SubmissionRepo
  activities  repos.UserActivityRepo
  history     repos.EchoScoreHistoryRepo
}

func NewEchoScoreService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  submissions repos.SubmissionRepo,
  activities repos.UserActivityRepo,
  history repos.EchoScoreHistoryRepo,
) EchoScoreService {
  serviceLog := log.With("service", "EchoScoreService")
  return &echoScoreService{
    db:          db,
    log:         serviceLog,
    userRepo:    userRepo,
    submissions: submissions,
    activities:  activities,
    history:     history,
  }
}

func (es *echoScoreService) Calculate(ctx context.Context, userID uuid.UUID, days int) (*ScoreResult, error) {
  if days < 0 {
    return nil, fmt.Errorf("days must not be negative")
  }
  inputs, err := es.loadInputs(ctx, userID, days)
  if err != nil {
    return nil, fmt.Errorf("Failed to load scoring inputs: %w", err)
  }
  result := computeEchoScore(*inputs)
  return &result, nil
}

func (es *echoScoreService) CalculateAndSave(ctx context.Context, userID uuid.UUID, days int) (*ScoreResult, error) {
  result, err := es.Calculate(ctx, userID, days)
  if err != nil {
    return nil, err
  }
  detailsJSON, err := json.Marshal(result.Details)
  if err != nil {
    return nil, fmt.Errorf("Failed to marshal calculation details: %w", err)
  }
  row := &types.EchoScoreHistory{
    ID:                 uuid.New(),
    UserID:             userID,
    DiversityScore:     result.Components.Diversity,
    AccuracyScore:      result.Components.Accuracy,
    SwitchSpeedScore:   result.Components.SwitchSpeed,
    ConsistencyScore:   result.Components.Consistency,
    ImprovementScore:   result.Components.Improvement,
    TotalScore:         result.Total,
    CalculationDetails: detailsJSON,
    ScoreDate:          result.ScoreDate,
  }
  err = es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := es.history.Create(ctx, tx, []*types.EchoScoreHistory{row}); cErr != nil {
      return fmt.Errorf("Failed to persist echo score history: %w", cErr)
    }
    if uErr := es.userRepo.UpdateFields(ctx, tx, userID, map[string]interface{}{
      "echo_score": result.Total,
    }); uErr != nil {
      return fmt.Errorf("Failed to update cached echo score: %w", uErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  es.log.Info("Echo score calculated and saved", "user_id", userID.String(), "total", result.Total)
  return result, nil
}

func (es *echoScoreService) Latest(ctx context.Context, userID uuid.UUID) (*types.EchoScoreHistory, error) {
  return es.history.GetLatestByUser(ctx, nil, userID)
}

func (es *echoScoreService) History(ctx context.Context, userID uuid.UUID, days int) ([]*types.EchoScoreHistory, error) {
  if days < 0 {
    return nil, fmt.Errorf("days must not be negative")
  }
  var since time.Time
  if days > 0 {
    since = time.Now().AddDate(0, 0, -days)
  }
  return es.history.GetByUserSince(ctx, nil, userID, since)
}

func (es *echoScoreService) Progress(ctx context.Context, userID uuid.UUID, days int) (*ScoreProgress, error) {
  rows, err := es.History(ctx, userID, days)
  if err != nil {
    return nil, err
  }
  progress := &ScoreProgress{}
  if len(rows) == 0 {
    return progress, nil
  }
  oldest := rows[0]
  latest := rows[len(rows)-1]
  progress.Current = historyToResult(latest)
  if latest.ID != oldest.ID {
    progress.Baseline = historyToResult(oldest)
    progress.Delta = latest.TotalScore - oldest.TotalScore
  }
  return progress, nil
}

func (es *echoScoreService) loadInputs(ctx context.Context, userID uuid.UUID, days int) (*ScoreInputs, error) {
  now := time.Now()
  var since time.Time
  windowDays := days
  if days > 0 {
    since = now.AddDate(0, 0, -days)
  } else {
    windowDays = defaultScoreWindowDays
  }

  subRows, err := es.submissions.GetByUserSince(ctx, nil, userID, since)
  if err != nil {
    return nil, err
  }
  actRows, err := es.activities.GetByUserSince(ctx, nil, userID, since)
  if err != nil {
    return nil, err
  }

  inputs := &ScoreInputs{WindowDays: windowDays, Now: now}
  for _, s := range subRows {
    inputs.Submissions = append(inputs.Submissions, SubmissionSample{
      IsCorrect:        s.IsCorrect,
      TimeSpentSeconds: s.TimeSpentSeconds,
      CreatedAt:        s.CreatedAt,
    })
  }
  for _, a := range actRows {
    inputs.Activities = append(inputs.Activities, ActivitySample{
      BiasRating: a.BiasRating,
      CreatedAt:  a.CreatedAt,
    })
  }
  return inputs, nil
}

// computeEchoScore derives the five component scores and the weighted total
// from raw activity. Pure; no clock or storage access beyond the inputs.
func computeEchoScore(in ScoreInputs) ScoreResult {
  components := ScoreComponents{
    Diversity:   diversityScore(in.Activities),
    Accuracy:    accuracyScore(in.Submissions),
    SwitchSpeed: switchSpeedScore(in.Activities),
    Consistency: consistencyScore(in),
    Improvement: improvementScore(in),
  }
  total := WeightDiversity*components.Diversity +
    WeightAccuracy*components.Accuracy +
    WeightSwitchSpeed*components.SwitchSpeed +
    WeightConsistency*components.Consistency +
    WeightImprovement*components.Improvement
  return ScoreResult{
    Components: components,
    Total:      int(clamp(math.Round(total), 0, 100)),
    Details:    calculationDetails(in),
    ScoreDate:  in.Now,
  }
}

func diversityScore(activities []ActivitySample) float64 {
  if len(activities) == 0 {
    return 0
  }
  buckets := map[int]struct{}{}
  for _, a := range activities {
    buckets[clampBucket(a.BiasRating)] = struct{}{}
  }
  return clamp(float64(len(buckets))/float64(types.BiasBucketCount)*100, 0, 100)
}

func accuracyScore(submissions []SubmissionSample) float64 {
  if len(submissions) == 0 {
    return 0
  }
  correct := 0
  for _, s := range submissions {
    if s.IsCorrect {
      correct++
    }
  }
  return float64(correct) / float64(len(submissions)) * 100
}

// switchSpeedScore measures how quickly the user alternates between
// opposing-bias content. Center-rated reads carry no side and are skipped.
func switchSpeedScore(activities []ActivitySample) float64 {
  var gaps []time.Duration
  lastSide := 0
  var lastAt time.Time
  for _, a := range activities {
    side := biasSide(a.BiasRating)
    if side == 0 {
      continue
    }
    if lastSide != 0 && side != lastSide {
      gaps = append(gaps, a.CreatedAt.Sub(lastAt))
    }
    lastSide = side
    lastAt = a.CreatedAt
  }
  if len(gaps) == 0 {
    return 0
  }
  var total time.Duration
  for _, g := range gaps {
    total += g
  }
  avg := total / time.Duration(len(gaps))
  if avg <= 0 {
    return 100
  }
  ratio := float64(switchBaselineGap) / float64(avg)
  if ratio > 1 {
    ratio = 1
  }
  return ratio * 100
}

func consistencyScore(in ScoreInputs) float64 {
  if in.WindowDays <= 0 {
    return 0
  }
  days := map[string]struct{}{}
  for _, s := range in.Submissions {
    days[s.CreatedAt.Format("2006-01-02")] = struct{}{}
  }
  for _, a := range in.Activities {
    days[a.CreatedAt.Format("2006-01-02")] = struct{}{}
  }
  if len(days) == 0 {
    return 0
  }
  return clamp(float64(len(days))/float64(in.WindowDays)*100, 0, 100)
}

// improvementScore compares the second half of the window against the
// first. 50 means flat, above 50 improving, below declining.
func improvementScore(in ScoreInputs) float64 {
  if len(in.Submissions) == 0 && len(in.Activities) == 0 {
    return 0
  }
  mid := in.Now.AddDate(0, 0, -in.WindowDays/2)

  firstComposite, firstOK := halfComposite(in, func(t time.Time) bool { return t.Before(mid) })
  secondComposite, secondOK := halfComposite(in, func(t time.Time) bool { return !t.Before(mid) })
  if !firstOK || !secondOK {
    return 50
  }
  delta := secondComposite - firstComposite
  return clamp(50+delta*100, 0, 100)
}

// halfComposite blends accuracy and diversity fractions for the slice of
// the window selected by the predicate. Both fractions are in [0, 1].
func halfComposite(in ScoreInputs, include func(time.Time) bool) (float64, bool) {
  total, correct := 0, 0
  for _, s := range in.Submissions {
    if !include(s.CreatedAt) {
      continue
    }
    total++
    if s.IsCorrect {
      correct++
    }
  }
  buckets := map[int]struct{}{}
  activityCount := 0
  for _, a := range in.Activities {
    if !include(a.CreatedAt) {
      continue
    }
    activityCount++
    buckets[clampBucket(a.BiasRating)] = struct{}{}
  }
  if total == 0 && activityCount == 0 {
    return 0, false
  }
  accFrac := 0.0
  if total > 0 {
    accFrac = float64(correct) / float64(total)
  }
  divFrac := float64(len(buckets)) / float64(types.BiasBucketCount)
  return (accFrac + divFrac) / 2, true
}

func calculationDetails(in ScoreInputs) CalculationDetails {
  details := CalculationDetails{
    ArticlesRead: len(in.Activities),
    TotalAnswers: len(in.Submissions),
  }
  buckets := map[int]struct{}{}
  for _, a := range in.Activities {
    buckets[clampBucket(a.BiasRating)] = struct{}{}
  }
  details.PerspectivesExplored = len(buckets)
  totalTime := 0
  for _, s := range in.Submissions {
    if s.IsCorrect {
      details.AccurateAnswers++
      details.ChallengesCompleted++
    }
    totalTime += s.TimeSpentSeconds
  }
  if len(in.Submissions) > 0 {
    details.AverageTimeSeconds = float64(totalTime) / float64(len(in.Submissions))
  }
  return details
}

func historyToResult(row *types.EchoScoreHistory) *ScoreResult {
  if row == nil {
    return nil
  }
  result := &ScoreResult{
    Components: ScoreComponents{
      Diversity:   row.DiversityScore,
      Accuracy:    row.AccuracyScore,
      SwitchSpeed: row.SwitchSpeedScore,
      Consistency: row.ConsistencyScore,
      Improvement: row.ImprovementScore,
    },
    Total:     row.TotalScore,
    ScoreDate: row.ScoreDate,
  }
  if len(row.CalculationDetails) > 0 {
    _ = json.Unmarshal(row.CalculationDetails, &result.Details)
  }
  return result
}

func biasSide(rating int) int {
  switch {
  case rating < 0:
    return -1
  case rating > 0:
    return 1
  default:
    return 0
  }
}

func clampBucket(rating int) int {
  if rating < types.BiasRatingMin {
    return types.BiasRatingMin
  }
  if rating > types.BiasRatingMax {
    return types.BiasRatingMax
  }
  return rating
}

func clamp(v, lo, hi float64) float64 {
  if v < lo {
    return lo
  }
  if v > hi {
    return hi
  }
  return v
}
