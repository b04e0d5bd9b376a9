package services

import (
	"math"
	"testing"
	"time"
)

func TestComputeEchoScore_NoActivityScoresZero(t *testing.T) {
	out := computeEchoScore(ScoreInputs{WindowDays: 30, Now: time.Now()})
	if out.Total != 0 {
		t.Fatalf("expected total=0 got %d", out.Total)
	}
	c := out.Components
	if c.Diversity != 0 || c.Accuracy != 0 || c.SwitchSpeed != 0 || c.Consistency != 0 || c.Improvement != 0 {
		t.Fatalf("expected all components zero, got %#v", c)
	}
}

func TestComponentWeights_SumToOne(t *testing.T) {
	sum := WeightDiversity + WeightAccuracy + WeightSwitchSpeed + WeightConsistency + WeightImprovement
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
}

func TestAccuracyScore_ThreeOfFour(t *testing.T) {
	subs := []SubmissionSample{
		{IsCorrect: true},
		{IsCorrect: true},
		{IsCorrect: true},
		{IsCorrect: false},
	}
	if got := accuracyScore(subs); got != 75 {
		t.Fatalf("expected 75 got %v", got)
	}
}

func TestDiversityScore_AllBucketsHitScoresFull(t *testing.T) {
	var acts []ActivitySample
	for r := -3; r <= 3; r++ {
		acts = append(acts, ActivitySample{BiasRating: r})
	}
	if got := diversityScore(acts); got != 100 {
		t.Fatalf("expected 100 got %v", got)
	}
}

func TestDiversityScore_OutOfRangeRatingsClampIntoEdgeBuckets(t *testing.T) {
	acts := []ActivitySample{
		{BiasRating: -10},
		{BiasRating: -3},
	}
	want := 1.0 / 7.0 * 100
	if got := diversityScore(acts); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestSwitchSpeedScore_DailyFlipScoresFull(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	acts := []ActivitySample{
		{BiasRating: -2, CreatedAt: base},
		{BiasRating: 2, CreatedAt: base.Add(24 * time.Hour)},
	}
	if got := switchSpeedScore(acts); got != 100 {
		t.Fatalf("expected 100 got %v", got)
	}
}

func TestSwitchSpeedScore_SlowerFlipsScaleDown(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	acts := []ActivitySample{
		{BiasRating: -1, CreatedAt: base},
		{BiasRating: 1, CreatedAt: base.Add(48 * time.Hour)},
	}
	if got := switchSpeedScore(acts); math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected 50 got %v", got)
	}
}

func TestSwitchSpeedScore_CenterReadsCarryNoSide(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	acts := []ActivitySample{
		{BiasRating: 0, CreatedAt: base},
		{BiasRating: 0, CreatedAt: base.Add(time.Hour)},
	}
	if got := switchSpeedScore(acts); got != 0 {
		t.Fatalf("expected 0 got %v", got)
	}
}

func TestConsistencyScore_ActiveEveryDayScoresFull(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := ScoreInputs{WindowDays: 4, Now: now}
	for d := 0; d < 4; d++ {
		in.Submissions = append(in.Submissions, SubmissionSample{
			IsCorrect: true,
			CreatedAt: now.AddDate(0, 0, -d),
		})
	}
	if got := consistencyScore(in); got != 100 {
		t.Fatalf("expected 100 got %v", got)
	}
}

func TestConsistencyScore_SameDayRepeatsCountOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := ScoreInputs{WindowDays: 10, Now: now}
	for i := 0; i < 5; i++ {
		in.Submissions = append(in.Submissions, SubmissionSample{CreatedAt: now})
	}
	want := 10.0
	if got := consistencyScore(in); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestImprovementScore_EmptyHalfIsNeutral(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := ScoreInputs{
		WindowDays: 30,
		Now:        now,
		Submissions: []SubmissionSample{
			{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -1)},
		},
	}
	if got := improvementScore(in); got != 50 {
		t.Fatalf("expected 50 got %v", got)
	}
}

func TestImprovementScore_BetterSecondHalfScoresAboveNeutral(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := ScoreInputs{
		WindowDays: 30,
		Now:        now,
		Submissions: []SubmissionSample{
			{IsCorrect: false, CreatedAt: now.AddDate(0, 0, -20)},
			{IsCorrect: true, CreatedAt: now.AddDate(0, 0, -2)},
		},
	}
	got := improvementScore(in)
	if got <= 50 {
		t.Fatalf("expected score above 50, got %v", got)
	}
	if got > 100 {
		t.Fatalf("expected clamped score, got %v", got)
	}
}

func TestComputeEchoScore_TotalStaysWithinBounds(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := ScoreInputs{WindowDays: 7, Now: now}
	for d := 0; d < 7; d++ {
		in.Submissions = append(in.Submissions, SubmissionSample{
			IsCorrect: true,
			CreatedAt: now.AddDate(0, 0, -d),
		})
		in.Activities = append(in.Activities, ActivitySample{
			BiasRating: (d % 7) - 3,
			CreatedAt:  now.AddDate(0, 0, -d).Add(time.Duration(d) * time.Hour),
		})
	}
	out := computeEchoScore(in)
	if out.Total < 0 || out.Total > 100 {
		t.Fatalf("total out of bounds: %d", out.Total)
	}
	if out.Details.TotalAnswers != 7 || out.Details.ArticlesRead != 7 {
		t.Fatalf("unexpected details: %#v", out.Details)
	}
}

func TestClampBucket_Edges(t *testing.T) {
	if got := clampBucket(-5); got != -3 {
		t.Fatalf("expected -3 got %d", got)
	}
	if got := clampBucket(7); got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}
	if got := clampBucket(1); got != 1 {
		t.Fatalf("expected 1 got %d", got)
	}
}
