package services

import (
	"math"
	"sort"
	"time"

	"github.com/skillforge/engage/models"
)

// Content list sort modes.
const (
	SortHot = "hot"
	SortNew = "new"
	SortTop = "top"
)

// Hot ranking constants. The offset damps very fresh low-vote items and the
// gravity exponent controls how fast older items sink; both must stay fixed
// for orderings to remain comparable across versions.
const (
	hotOffsetHours = 2.0
	hotGravity     = 1.5
)

// HotScore computes the time-decayed popularity of an item at the given
// instant: netScore / (ageHours + 2)^1.5.
func HotScore(netScore int, createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return float64(netScore) / math.Pow(ageHours+hotOffsetHours, hotGravity)
}

// Rank orders a snapshot of content items for display. It is pure: the
// input slice is never mutated, no I/O happens, and the caller supplies the
// clock. Pinned items go first in every mode; within the pinned block and
// the rest, ordering follows the mode, and ties keep their input order
// (stable sort).
func Rank(items []models.ContentItem, mode string, now time.Time) []models.ContentItem {
	ranked := make([]models.ContentItem, len(items))
	copy(ranked, items)

	less := rankLess(mode, now)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return less(a, b)
	})
	return ranked
}

func rankLess(mode string, now time.Time) func(a, b *models.ContentItem) bool {
	switch mode {
	case SortNew:
		return func(a, b *models.ContentItem) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortTop:
		return func(a, b *models.ContentItem) bool {
			return a.Score() > b.Score()
		}
	default: // hot
		return func(a, b *models.ContentItem) bool {
			return HotScore(a.Score(), a.CreatedAt, now) > HotScore(b.Score(), b.CreatedAt, now)
		}
	}
}

// DisplayScore is the net score shown next to an item, corrected by the
// viewer's own vote when it is not yet reflected in the fetched counts.
// unreflectedVote is +1, -1, or 0. The correction is display-only and never
// written back.
func DisplayScore(upvotes, downvotes, unreflectedVote int) int {
	return upvotes - downvotes + unreflectedVote
}
