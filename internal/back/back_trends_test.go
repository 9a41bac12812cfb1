package back // nolint:testpackage

import (
	"testing"
	"time"
)

func TestPeriodCompute(t *testing.T) {
	type entry struct {
		fn              func(time.Time) time.Time
		input, expected string
	}

	cases := []entry{
		{currentPeriodStart, "2026-05-15 02:00 +0000", "2026-05-15"},
		{currentPeriodStart, "2026-05-15 23:59 +0000", "2026-05-15"},
		{currentPeriodStart, "2026-05-15 00:00 +0000", "2026-05-15"},

		{previousPeriodStart, "2026-05-15 02:00 +0000", "2026-05-14"},
		{previousPeriodStart, "2026-05-01 00:00 +0000", "2026-04-30"},
		{previousPeriodStart, "2026-01-01 12:00 +0000", "2025-12-31"},

		// The tricky cases, where interpreting the day in the wrong TZ
		// could mess up the results.
		{currentPeriodStart, "2026-05-15 01:00 +0200", "2026-05-14"},
		{currentPeriodStart, "2026-05-15 02:00 +0200", "2026-05-15"},
	}

	for k, v := range cases {
		input, err := time.Parse("2006-01-02 15:04 -0700", v.input)
		if err != nil {
			t.Fatal(err)
		}

		actual := v.fn(input).Format("2006-01-02")
		if actual != v.expected {
			t.Errorf("case #%d: expected %s got %s", k, v.expected, actual)
		}
	}
}

func TestUpdateBrandTrends(t *testing.T) {
	back := createFixturedTestBack(t)
	a, b := getTestPair(t, back, "Chatime", "The Alley")

	yesterday := time.Now().AddDate(0, 0, -1)
	if err := back.updateBrandTrends(yesterday); err != nil {
		t.Fatal(err)
	}

	if _, err := back.RecordMatch(a.ID, b.ID, false, MatchLocation{}); err != nil {
		t.Fatal(err)
	}

	if err := back.updateBrandTrends(time.Now()); err != nil {
		t.Fatal(err)
	}

	a, b = getTestPair(t, back, "Chatime", "The Alley")
	if a.RatingTrend != 16 {
		t.Errorf("expected +16 rating trend for the winner, got %f", a.RatingTrend)
	}
	if b.RatingTrend != -16 {
		t.Errorf("expected -16 rating trend for the loser, got %f", b.RatingTrend)
	}
	if a.RankTrend < 0 {
		t.Errorf("the winner cannot have dropped in rank, got %d", a.RankTrend)
	}
	if b.RankTrend > 0 {
		t.Errorf("the loser cannot have climbed in rank, got %d", b.RankTrend)
	}
}

func TestUpdateBrandTrendsIsUpsert(t *testing.T) {
	back := createFixturedTestBack(t)

	now := time.Now()
	if err := back.updateBrandTrends(now); err != nil {
		t.Fatal(err)
	}

	// Running twice inside the same period must not error nor duplicate.
	if err := back.updateBrandTrends(now); err != nil {
		t.Fatal(err)
	}
}

func TestRerankReplaysHistory(t *testing.T) {
	back := createFixturedTestBack(t)
	a, b := getTestPair(t, back, "Chatime", "The Alley")

	for i := 0; i < 5; i++ {
		winnerID, loserID := a.ID, b.ID
		if i == 3 {
			winnerID, loserID = b.ID, a.ID
		}
		if _, err := back.RecordMatch(winnerID, loserID, i == 4, MatchLocation{}); err != nil {
			t.Fatal(err)
		}
	}

	before, _ := getTestPair(t, back, "Chatime", "The Alley")

	if err := back.Rerank(); err != nil {
		t.Fatal(err)
	}

	after, afterB := getTestPair(t, back, "Chatime", "The Alley")

	// Replaying the same history with the same K must land on the same state.
	if before.Rating != after.Rating {
		t.Errorf("rerank diverged: %f != %f", before.Rating, after.Rating)
	}
	if after.Wins != 3 || after.Losses != 1 || after.Ties != 1 {
		t.Errorf("bad replayed counters: %d/%d/%d", after.Wins, after.Losses, after.Ties)
	}
	if afterB.Wins != 1 || afterB.Losses != 3 || afterB.Ties != 1 {
		t.Errorf("bad replayed counters: %d/%d/%d", afterB.Wins, afterB.Losses, afterB.Ties)
	}
}
