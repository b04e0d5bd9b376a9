package services

import (
	"testing"
	"time"
)

func TestComputeXP_BaseRewardWithoutModifiers(t *testing.T) {
	if got := computeXP(10, 0, 0, 0); got != 10 {
		t.Fatalf("expected 10 got %d", got)
	}
}

func TestComputeXP_StreakBonusPerFiveDayBlock(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{0, 100},
		{4, 100},
		{5, 110},
		{10, 120},
		{25, 150},
		{100, 150}, // capped at +50%
	}
	for _, tc := range cases {
		if got := computeXP(100, tc.streak, 0, 0); got != tc.want {
			t.Fatalf("streak %d: expected %d got %d", tc.streak, tc.want, got)
		}
	}
}

func TestComputeXP_SpeedModifiers(t *testing.T) {
	// Estimated 5 minutes = 300 seconds.
	cases := []struct {
		timeSpent int
		want      int
	}{
		{120, 120}, // half the estimate or better: +20%
		{150, 120},
		{250, 110}, // within the estimate: +10%
		{300, 110},
		{400, 100}, // over but not double: no modifier
		{601, 90},  // more than double: -10%
	}
	for _, tc := range cases {
		if got := computeXP(100, 0, tc.timeSpent, 5); got != tc.want {
			t.Fatalf("time %ds: expected %d got %d", tc.timeSpent, tc.want, got)
		}
	}
}

func TestComputeXP_ZeroBaseRewardEarnsNothing(t *testing.T) {
	if got := computeXP(0, 20, 60, 5); got != 0 {
		t.Fatalf("expected 0 got %d", got)
	}
}

func TestStreakAfterSubmission_FirstCorrectStartsAtOne(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := streakAfterSubmission(nil, now, 0, true); got != 1 {
		t.Fatalf("expected 1 got %d", got)
	}
}

func TestStreakAfterSubmission_NextDayExtends(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	if got := streakAfterSubmission(&yesterday, now, 3, true); got != 4 {
		t.Fatalf("expected 4 got %d", got)
	}
}

func TestStreakAfterSubmission_SameDayNeverDoubleCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if got := streakAfterSubmission(&earlier, now, 3, true); got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}
}

func TestStreakAfterSubmission_GapResetsToOne(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	threeDaysAgo := now.AddDate(0, 0, -3)
	if got := streakAfterSubmission(&threeDaysAgo, now, 9, true); got != 1 {
		t.Fatalf("expected 1 got %d", got)
	}
}

func TestStreakAfterSubmission_IncorrectLeavesStreakUntouched(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	threeDaysAgo := now.AddDate(0, 0, -3)
	if got := streakAfterSubmission(&threeDaysAgo, now, 9, false); got != 9 {
		t.Fatalf("expected 9 got %d", got)
	}
}

func TestFeedbackFor_IncludesExplanation(t *testing.T) {
	got := feedbackFor(true, "Both sources framed the same event.")
	if got != "Correct! Both sources framed the same event." {
		t.Fatalf("unexpected feedback: %q", got)
	}
	got = feedbackFor(false, "")
	if got != "Not quite. Review the material and try again." {
		t.Fatalf("unexpected feedback: %q", got)
	}
}
