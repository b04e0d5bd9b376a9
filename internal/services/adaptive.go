package services

import (
  "context"
  "encoding/json"
  "fmt"
  "sort"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/perspective-app/perspective-backend/internal/clients/redis"
  "github.com/perspective-app/perspective-backend/internal/logger"
  "github.com/perspective-app/perspective-backend/internal/repos"
  "github.com/perspective-app/perspective-backend/internal/types"
)

const (
  strengthAccuracyThreshold = 0.75
  strengthMinAttempts       = 5
  weaknessAccuracyThreshold = 0.50
  trendMinDelta             = 0.10
  trendWindowDays           = 30
  maxRecommendationCount    = 20
)

type TrendDirection string

const (
  TrendImproving TrendDirection = "improving"
  TrendStable    TrendDirection = "stable"
  TrendDeclining TrendDirection = "declining"
)

type TypePerformance struct {
  ChallengeType types.ChallengeType `json:"challenge_type"`
  Attempts      int                 `json:"attempts"`
  Accuracy      float64             `json:"accuracy"`
  LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

type ProgressReport struct {
  Strengths        []TypePerformance     `json:"strengths"`
  Weaknesses       []TypePerformance     `json:"weaknesses"`
  RecommendedFocus []types.ChallengeType `json:"recommended_focus"`
  ProgressTrend    TrendDirection        `json:"progress_trend"`
}

type AdaptiveService interface {
  AnalyzeUserProgress(ctx context.Context, userID uuid.UUID) (*ProgressReport, error)
  GetNextChallengeForUser(ctx context.Context, userID uuid.UUID) (*types.Challenge, error)
  GetAdaptiveChallengeRecommendations(ctx context.Context, userID uuid.UUID, count int) ([]*types.Challenge, error)
}

type adaptiveService struct {
  db          *gorm.DB
  log         *logger.Logger
  challenges  repos.ChallengeRepo
  submissions repos.SubmissionRepo
  stats       repos.UserChallengeStatsRepo
  selections  repos.DailySelectionRepo
  dailyCache  redis.DailySelectionCache
}

func NewAdaptiveService(
  db *gorm.DB,
  log *logger.Logger,
  challenges repos.ChallengeRepo,
  submissions repos.SubmissionRepo,
  stats repos.UserChallengeStatsRepo,
  selections repos.DailySelectionRepo,
  dailyCache redis.DailySelectionCache,
) AdaptiveService {
  serviceLog := log.With("service", "AdaptiveService")
  return &adaptiveService{
    db:          db,
    log:         serviceLog,
    challenges:  challenges,
    submissions: submissions,
    stats:       stats,
    selections:  selections,
    dailyCache:  dailyCache,
  }
}

func (s *adaptiveService) AnalyzeUserProgress(ctx context.Context, userID uuid.UUID) (*ProgressReport, error) {
  statRows, err := s.stats.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load challenge stats: %w", err)
  }
  now := time.Now()
  windowSubs, err := s.submissions.GetByUserSince(ctx, nil, userID, now.AddDate(0, 0, -trendWindowDays))
  if err != nil {
    return nil, fmt.Errorf("Failed to load submissions for trend: %w", err)
  }
  samples := make([]SubmissionSample, 0, len(windowSubs))
  for _, row := range windowSubs {
    samples = append(samples, SubmissionSample{IsCorrect: row.IsCorrect, CreatedAt: row.CreatedAt})
  }
  report := analyzeProgress(statRows, samples, now)
  return report, nil
}

func (s *adaptiveService) GetNextChallengeForUser(ctx context.Context, userID uuid.UUID) (*types.Challenge, error) {
  report, statRows, err := s.loadAnalysis(ctx, userID)
  if err != nil {
    return nil, err
  }

  today := time.Now()
  startOfDay := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
  todaysSubs, err := s.submissions.GetByUserBetween(ctx, nil, userID, startOfDay, startOfDay.AddDate(0, 0, 1))
  if err != nil {
    return nil, fmt.Errorf("Failed to load today's submissions: %w", err)
  }
  exclude := map[uuid.UUID]bool{}
  for _, sub := range todaysSubs {
    exclude[sub.ChallengeID] = true
  }

  candidates, err := s.challenges.GetActive(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to load active challenges: %w", err)
  }

  ranked := rankChallenges(candidates, report.RecommendedFocus, difficultyTiers(statRows), exclude, fallbackType(today))
  if len(ranked) == 0 {
    return nil, nil
  }
  return ranked[0], nil
}

func (s *adaptiveService) GetAdaptiveChallengeRecommendations(ctx context.Context, userID uuid.UUID, count int) ([]*types.Challenge, error) {
  if count <= 0 {
    return nil, fmt.Errorf("count must be positive")
  }
  if count > maxRecommendationCount {
    count = maxRecommendationCount
  }

  report, statRows, err := s.loadAnalysis(ctx, userID)
  if err != nil {
    return nil, err
  }

  candidates, err := s.challenges.GetActive(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to load active challenges: %w", err)
  }

  now := time.Now()
  tiers := difficultyTiers(statRows)
  ranked := rankChallenges(candidates, report.RecommendedFocus, tiers, nil, fallbackType(now))
  if len(ranked) > count {
    ranked = ranked[:count]
  }
  if len(ranked) == 0 {
    return ranked, nil
  }

  top := ranked[0]
  reasons := selectionReasons(top, report, tiers)
  if err := s.recordSelection(ctx, userID, top, reasons, now); err != nil {
    // Auditing must not block serving the recommendation.
    s.log.Warn("Failed to record daily selection", "user_id", userID.String(), "error", err)
  }
  return ranked, nil
}

func (s *adaptiveService) loadAnalysis(ctx context.Context, userID uuid.UUID) (*ProgressReport, []*types.UserChallengeStats, error) {
  statRows, err := s.stats.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, nil, fmt.Errorf("Failed to load challenge stats: %w", err)
  }
  report, err := s.AnalyzeUserProgress(ctx, userID)
  if err != nil {
    return nil, nil, err
  }
  return report, statRows, nil
}

func (s *adaptiveService) recordSelection(ctx context.Context, userID uuid.UUID, top *types.Challenge, reasons []string, now time.Time) error {
  reasonsJSON, err := json.Marshal(reasons)
  if err != nil {
    return err
  }
  selectionDate := now.Format("2006-01-02")
  row := &types.DailyChallengeSelection{
    ID:            uuid.New(),
    UserID:        userID,
    ChallengeID:   top.ID,
    SelectionDate: selectionDate,
    Reasons:       reasonsJSON,
  }
  if err := s.selections.Upsert(ctx, nil, row); err != nil {
    return err
  }
  if s.dailyCache != nil {
    if cErr := s.dailyCache.SetSelection(ctx, userID, selectionDate, top.ID); cErr != nil {
      s.log.Debug("Daily selection cache write failed", "error", cErr)
    }
  }
  return nil
}

// analyzeProgress classifies per-type performance and the overall trend.
// Pure; inputs come straight from the aggregates and the trailing window.
func analyzeProgress(statRows []*types.UserChallengeStats, windowSubs []SubmissionSample, now time.Time) *ProgressReport {
  report := &ProgressReport{
    Strengths:        []TypePerformance{},
    Weaknesses:       []TypePerformance{},
    RecommendedFocus: []types.ChallengeType{},
    ProgressTrend:    classifyTrend(windowSubs, now),
  }

  byType := map[types.ChallengeType]*types.UserChallengeStats{}
  for _, row := range statRows {
    byType[row.ChallengeType] = row
  }

  type focusEntry struct {
    challengeType types.ChallengeType
    severity      float64
    lastAttempt   time.Time
    untouched     bool
  }
  var focus []focusEntry

  for _, ct := range types.AllChallengeTypes {
    row, ok := byType[ct]
    if !ok || row.TotalAttempts == 0 {
      focus = append(focus, focusEntry{challengeType: ct, untouched: true})
      continue
    }
    perf := TypePerformance{
      ChallengeType: ct,
      Attempts:      row.TotalAttempts,
      Accuracy:      row.Accuracy(),
      LastAttemptAt: row.LastAttemptAt,
    }
    switch {
    case perf.Accuracy >= strengthAccuracyThreshold && perf.Attempts >= strengthMinAttempts:
      report.Strengths = append(report.Strengths, perf)
    case perf.Accuracy < weaknessAccuracyThreshold:
      report.Weaknesses = append(report.Weaknesses, perf)
      last := time.Time{}
      if row.LastAttemptAt != nil {
        last = *row.LastAttemptAt
      }
      focus = append(focus, focusEntry{challengeType: ct, severity: perf.Accuracy, lastAttempt: last})
    }
  }

  // Untouched types lead in enum order, then weak types by severity, least
  // recent attempt breaking ties to encourage breadth.
  sort.SliceStable(focus, func(i, j int) bool {
    if focus[i].untouched != focus[j].untouched {
      return focus[i].untouched
    }
    if focus[i].untouched {
      return false
    }
    if focus[i].severity != focus[j].severity {
      return focus[i].severity < focus[j].severity
    }
    return focus[i].lastAttempt.Before(focus[j].lastAttempt)
  })
  for _, f := range focus {
    report.RecommendedFocus = append(report.RecommendedFocus, f.challengeType)
  }
  return report
}

// classifyTrend splits the trailing window in half by time and compares
// accuracy between the halves.
func classifyTrend(subs []SubmissionSample, now time.Time) TrendDirection {
  mid := now.AddDate(0, 0, -trendWindowDays/2)
  firstTotal, firstCorrect := 0, 0
  secondTotal, secondCorrect := 0, 0
  for _, s := range subs {
    if s.CreatedAt.Before(mid) {
      firstTotal++
      if s.IsCorrect {
        firstCorrect++
      }
    } else {
      secondTotal++
      if s.IsCorrect {
        secondCorrect++
      }
    }
  }
  if firstTotal == 0 || secondTotal == 0 {
    return TrendStable
  }
  delta := float64(secondCorrect)/float64(secondTotal) - float64(firstCorrect)/float64(firstTotal)
  switch {
  case delta >= trendMinDelta:
    return TrendImproving
  case delta <= -trendMinDelta:
    return TrendDeclining
  default:
    return TrendStable
  }
}

// targetDifficulty maps demonstrated per-type accuracy to a difficulty
// tier. Thin samples stay at the beginner tier.
func targetDifficulty(accuracy float64, attempts int) int {
  if attempts < 3 {
    return types.MinDifficulty
  }
  switch {
  case accuracy < 0.50:
    return 1
  case accuracy < 0.65:
    return 2
  case accuracy < 0.80:
    return 3
  default:
    return types.MaxDifficulty
  }
}

func difficultyTiers(statRows []*types.UserChallengeStats) map[types.ChallengeType]int {
  tiers := map[types.ChallengeType]int{}
  for _, ct := range types.AllChallengeTypes {
    tiers[ct] = types.MinDifficulty
  }
  for _, row := range statRows {
    tiers[row.ChallengeType] = targetDifficulty(row.Accuracy(), row.TotalAttempts)
  }
  return tiers
}

// fallbackType round-robins the enum by day so brand-new users see every
// challenge type over a week.
func fallbackType(now time.Time) types.ChallengeType {
  return types.AllChallengeTypes[now.YearDay()%len(types.AllChallengeTypes)]
}

// rankChallenges orders eligible candidates: recommended-focus types first
// (in focus order), then difficulty closest to the user's tier, ties broken
// by id ascending for determinism. Challenges more than one tier above the
// user's demonstrated competence are dropped.
func rankChallenges(
  candidates []*types.Challenge,
  focus []types.ChallengeType,
  tiers map[types.ChallengeType]int,
  exclude map[uuid.UUID]bool,
  fallback types.ChallengeType,
) []*types.Challenge {
  focusRank := map[types.ChallengeType]int{}
  for i, ct := range focus {
    focusRank[ct] = i
  }

  type scored struct {
    challenge   *types.Challenge
    focusRank   int
    diffPenalty int
  }
  var eligible []scored
  seen := map[uuid.UUID]bool{}
  for _, c := range candidates {
    if c == nil || !c.IsActive || seen[c.ID] {
      continue
    }
    seen[c.ID] = true
    if exclude != nil && exclude[c.ID] {
      continue
    }
    tier, ok := tiers[c.Type]
    if !ok {
      tier = types.MinDifficulty
    }
    if c.Difficulty > tier+1 {
      continue
    }
    rank, ok := focusRank[c.Type]
    if !ok {
      rank = len(focus) + 1
      if len(focus) == 0 && c.Type == fallback {
        rank = 0
      }
    }
    penalty := c.Difficulty - tier
    if penalty < 0 {
      penalty = -penalty
    }
    eligible = append(eligible, scored{challenge: c, focusRank: rank, diffPenalty: penalty})
  }

  sort.SliceStable(eligible, func(i, j int) bool {
    if eligible[i].focusRank != eligible[j].focusRank {
      return eligible[i].focusRank < eligible[j].focusRank
    }
    if eligible[i].diffPenalty != eligible[j].diffPenalty {
      return eligible[i].diffPenalty < eligible[j].diffPenalty
    }
    return eligible[i].challenge.ID.String() < eligible[j].challenge.ID.String()
  })

  out := make([]*types.Challenge, 0, len(eligible))
  for _, e := range eligible {
    out = append(out, e.challenge)
  }
  return out
}

func selectionReasons(top *types.Challenge, report *ProgressReport, tiers map[types.ChallengeType]int) []string {
  reasons := []string{}
  attempted := false
  for _, w := range report.Weaknesses {
    if w.ChallengeType == top.Type {
      reasons = append(reasons, fmt.Sprintf("weak in %s", top.Type))
      attempted = true
      break
    }
  }
  for _, st := range report.Strengths {
    if st.ChallengeType == top.Type {
      attempted = true
      break
    }
  }
  if !attempted && len(report.RecommendedFocus) > 0 && report.RecommendedFocus[0] == top.Type {
    reasons = append(reasons, fmt.Sprintf("not yet attempted: %s", top.Type))
  }
  if tier, ok := tiers[top.Type]; ok {
    reasons = append(reasons, fmt.Sprintf("matches difficulty tier %d", tier))
  }
  reasons = append(reasons, fmt.Sprintf("progress trend: %s", report.ProgressTrend))
  return reasons
}
