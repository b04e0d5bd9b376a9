package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/perspective-app/perspective-backend/internal/types"
)

func TestClassifyTrend_RisingAccuracyIsImproving(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := []SubmissionSample{
		{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -20)},
		{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -19)},
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -3)},
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -2)},
	}
	if got := classifyTrend(subs, now); got != TrendImproving {
		t.Fatalf("expected improving got %q", got)
	}
}

func TestClassifyTrend_FallingAccuracyIsDeclining(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := []SubmissionSample{
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -20)},
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -19)},
		{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -3)},
		{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -2)},
	}
	if got := classifyTrend(subs, now); got != TrendDeclining {
		t.Fatalf("expected declining got %q", got)
	}
}

func TestClassifyTrend_EmptyHalfIsStable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := []SubmissionSample{
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -2)},
	}
	if got := classifyTrend(subs, now); got != TrendStable {
		t.Fatalf("expected stable got %q", got)
	}
}

func TestClassifyTrend_SmallDeltaIsStable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := []SubmissionSample{
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -20)},
		{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -19)},
		{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -3)},
		{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -2)},
	}
	if got := classifyTrend(subs, now); got != TrendStable {
		t.Fatalf("expected stable got %q", got)
	}
}

func TestTargetDifficulty_ThinSampleStaysAtFloor(t *testing.T) {
	if got := targetDifficulty(1.0, 2); got != types.MinDifficulty {
		t.Fatalf("expected %d got %d", types.MinDifficulty, got)
	}
}

func TestTargetDifficulty_Bands(t *testing.T) {
	cases := []struct {
		accuracy float64
		want     int
	}{
		{0.40, 1},
		{0.60, 2},
		{0.70, 3},
		{0.90, 4},
	}
	for _, tc := range cases {
		if got := targetDifficulty(tc.accuracy, 10); got != tc.want {
			t.Fatalf("accuracy %v: expected %d got %d", tc.accuracy, tc.want, got)
		}
	}
}

func TestAnalyzeProgress_ClassifiesStrengthsWeaknessesAndFocus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	statRows := []*types.UserChallengeStats{
		{ChallengeType: types.ChallengeTypeSynthesis, TotalAttempts: 10, CorrectAttempts: 8},
		{ChallengeType: types.ChallengeTypeLogicPuzzle, TotalAttempts: 10, CorrectAttempts: 3},
	}
	report := analyzeProgress(statRows, nil, now)

	if len(report.Strengths) != 1 || report.Strengths[0].ChallengeType != types.ChallengeTypeSynthesis {
		t.Fatalf("unexpected strengths: %#v", report.Strengths)
	}
	if len(report.Weaknesses) != 1 || report.Weaknesses[0].ChallengeType != types.ChallengeTypeLogicPuzzle {
		t.Fatalf("unexpected weaknesses: %#v", report.Weaknesses)
	}
	// Five untouched types lead in catalog order, the weak type trails.
	if len(report.RecommendedFocus) != 6 {
		t.Fatalf("expected 6 focus entries got %d", len(report.RecommendedFocus))
	}
	if report.RecommendedFocus[0] != types.ChallengeTypeBiasSwap {
		t.Fatalf("expected bias_swap first got %q", report.RecommendedFocus[0])
	}
	if report.RecommendedFocus[5] != types.ChallengeTypeLogicPuzzle {
		t.Fatalf("expected logic_puzzle last got %q", report.RecommendedFocus[5])
	}
	if report.ProgressTrend != TrendStable {
		t.Fatalf("expected stable trend got %q", report.ProgressTrend)
	}
}

func TestAnalyzeProgress_FewAttemptsHighAccuracyIsNotAStrength(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	statRows := []*types.UserChallengeStats{
		{ChallengeType: types.ChallengeTypeSynthesis, TotalAttempts: 3, CorrectAttempts: 3},
	}
	report := analyzeProgress(statRows, nil, now)
	if len(report.Strengths) != 0 {
		t.Fatalf("expected no strengths, got %#v", report.Strengths)
	}
}

func TestRankChallenges_DropsChallengesFarAboveTier(t *testing.T) {
	tiers := map[types.ChallengeType]int{}
	for _, ct := range types.AllChallengeTypes {
		tiers[ct] = 1
	}
	easy := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeBiasSwap, Difficulty: 1, IsActive: true}
	tooHard := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeBiasSwap, Difficulty: 4, IsActive: true}

	ranked := rankChallenges([]*types.Challenge{easy, tooHard}, []types.ChallengeType{types.ChallengeTypeBiasSwap}, tiers, nil, types.ChallengeTypeBiasSwap)
	if len(ranked) != 1 || ranked[0].ID != easy.ID {
		t.Fatalf("expected only the easy challenge, got %d results", len(ranked))
	}
}

func TestRankChallenges_ExcludesCompletedAndInactive(t *testing.T) {
	tiers := map[types.ChallengeType]int{}
	for _, ct := range types.AllChallengeTypes {
		tiers[ct] = 2
	}
	done := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeSynthesis, Difficulty: 2, IsActive: true}
	inactive := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeSynthesis, Difficulty: 2, IsActive: false}
	fresh := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeSynthesis, Difficulty: 2, IsActive: true}

	ranked := rankChallenges(
		[]*types.Challenge{done, inactive, fresh},
		[]types.ChallengeType{types.ChallengeTypeSynthesis},
		tiers,
		map[uuid.UUID]bool{done.ID: true},
		types.ChallengeTypeSynthesis,
	)
	if len(ranked) != 1 || ranked[0].ID != fresh.ID {
		t.Fatalf("expected only the fresh challenge, got %d results", len(ranked))
	}
}

func TestRankChallenges_FocusTypeOutranksOthers(t *testing.T) {
	tiers := map[types.ChallengeType]int{}
	for _, ct := range types.AllChallengeTypes {
		tiers[ct] = 2
	}
	focusPick := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeLogicPuzzle, Difficulty: 2, IsActive: true}
	other := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeSynthesis, Difficulty: 2, IsActive: true}

	ranked := rankChallenges(
		[]*types.Challenge{other, focusPick},
		[]types.ChallengeType{types.ChallengeTypeLogicPuzzle},
		tiers,
		nil,
		types.ChallengeTypeBiasSwap,
	)
	if len(ranked) != 2 || ranked[0].ID != focusPick.ID {
		t.Fatalf("expected focus type first, got %#v", ranked)
	}
}

func TestRankChallenges_NoDuplicateIDs(t *testing.T) {
	tiers := map[types.ChallengeType]int{}
	for _, ct := range types.AllChallengeTypes {
		tiers[ct] = 2
	}
	c := &types.Challenge{ID: uuid.New(), Type: types.ChallengeTypeBiasSwap, Difficulty: 1, IsActive: true}
	ranked := rankChallenges([]*types.Challenge{c, c}, nil, tiers, nil, types.ChallengeTypeBiasSwap)
	if len(ranked) != 1 {
		t.Fatalf("expected deduped results, got %d", len(ranked))
	}
}

func TestFallbackType_RoundRobinsByDay(t *testing.T) {
	day1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	first := fallbackType(day1)
	second := fallbackType(day2)
	if first == second {
		t.Fatalf("expected different fallback types on consecutive days, got %q twice", first)
	}
	if fallbackType(day1.AddDate(0, 0, 7)) != first {
		t.Fatalf("expected weekly cycle back to %q", first)
	}
}
