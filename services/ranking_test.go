package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/engage/models"
)

func item(title string, up, down int, age time.Duration, pinned bool, now time.Time) models.ContentItem {
	return models.ContentItem{
		Title:         title,
		UpvoteCount:   up,
		DownvoteCount: down,
		IsPinned:      pinned,
		CreatedAt:     now.Add(-age),
	}
}

func titles(items []models.ContentItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestHotScoreFormula(t *testing.T) {
	now := time.Now()

	// score 10 at 1h: 10 / 3^1.5
	a := HotScore(10, now.Add(-time.Hour), now)
	assert.InDelta(t, 1.9245, a, 0.001)

	// score 5 at 0.1h: 5 / 2.1^1.5
	b := HotScore(5, now.Add(-6*time.Minute), now)
	assert.InDelta(t, 1.6430, b, 0.001)

	assert.Greater(t, a, b, "older high-vote item must beat fresh low-vote item")
}

func TestRankHotOrdersByDecayedScore(t *testing.T) {
	now := time.Now()
	items := []models.ContentItem{
		item("B", 5, 0, 6*time.Minute, false, now),
		item("A", 10, 0, time.Hour, false, now),
	}

	ranked := Rank(items, SortHot, now)
	assert.Equal(t, []string{"A", "B"}, titles(ranked))
}

func TestRankNewOrdersByCreation(t *testing.T) {
	now := time.Now()
	items := []models.ContentItem{
		item("old", 100, 0, 48*time.Hour, false, now),
		item("fresh", 0, 0, time.Minute, false, now),
	}

	ranked := Rank(items, SortNew, now)
	assert.Equal(t, []string{"fresh", "old"}, titles(ranked))
}

func TestRankTopOrdersByNetScore(t *testing.T) {
	now := time.Now()
	items := []models.ContentItem{
		item("low", 5, 4, time.Hour, false, now),   // net 1
		item("high", 20, 3, time.Hour, false, now), // net 17
		item("negative", 2, 9, time.Hour, false, now),
	}

	ranked := Rank(items, SortTop, now)
	assert.Equal(t, []string{"high", "low", "negative"}, titles(ranked))
}

// A pinned zero-score item must precede an unpinned one with score 1000 in
// every mode.
func TestRankPinnedOverride(t *testing.T) {
	now := time.Now()
	items := []models.ContentItem{
		item("popular", 1000, 0, time.Minute, false, now),
		item("pinned", 0, 0, 100*time.Hour, true, now),
	}

	for _, mode := range []string{SortHot, SortNew, SortTop} {
		ranked := Rank(items, mode, now)
		assert.Equal(t, "pinned", ranked[0].Title, "mode %s", mode)
	}
}

func TestRankPinnedKeepModeOrderAmongThemselves(t *testing.T) {
	now := time.Now()
	items := []models.ContentItem{
		item("pin-low", 1, 0, time.Hour, true, now),
		item("pin-high", 50, 0, time.Hour, true, now),
		item("loose", 10, 0, time.Hour, false, now),
	}

	ranked := Rank(items, SortTop, now)
	assert.Equal(t, []string{"pin-high", "pin-low", "loose"}, titles(ranked))
}

func TestRankIsStableOnTies(t *testing.T) {
	now := time.Now()
	created := now.Add(-time.Hour)
	items := []models.ContentItem{
		{Title: "first", UpvoteCount: 5, CreatedAt: created},
		{Title: "second", UpvoteCount: 5, CreatedAt: created},
	}

	ranked := Rank(items, SortTop, now)
	assert.Equal(t, []string{"first", "second"}, titles(ranked))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	items := []models.ContentItem{
		item("b", 1, 0, time.Hour, false, now),
		item("a", 9, 0, time.Hour, false, now),
	}

	_ = Rank(items, SortTop, now)
	require.Equal(t, []string{"b", "a"}, titles(items), "input order must survive ranking")
}

func TestDisplayScore(t *testing.T) {
	assert.Equal(t, 7, DisplayScore(10, 3, 0))
	assert.Equal(t, 8, DisplayScore(10, 3, 1), "own fresh upvote counted locally")
	assert.Equal(t, 6, DisplayScore(10, 3, -1))
	assert.Equal(t, -2, DisplayScore(1, 3, 0), "score may go negative")
}
