package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/skillforge/engage/models"
)

// Vote toggle actions reported back to the caller.
const (
	VoteAdded   = "added"
	VoteRemoved = "removed"
	VoteChanged = "changed"
)

// Directions accepted on the wire.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionNone = "none"
)

// VoteResult carries the applied action and the authoritative counts read
// back from the content row inside the same transaction. Callers must not
// recompute counts from this.
type VoteResult struct {
	Action        string `json:"action"`
	Direction     string `json:"direction"`
	UpvoteCount   int    `json:"upvote_count"`
	DownvoteCount int    `json:"downvote_count"`
}

// VoteService implements the three-way vote toggle state machine.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// voteTransition decides what a toggle does given the user's current vote
// value (0 when none) and the requested one. It returns the action, the
// value after the toggle (0 means the vote row is deleted), and the count
// deltas to apply to the content row. Pure; the whole toggle behavior is
// testable from this table.
func voteTransition(current, requested int) (action string, next int, upDelta, downDelta int) {
	switch {
	case current == 0:
		action, next = VoteAdded, requested
		upDelta, downDelta = countDeltas(requested, +1)
	case current == requested:
		action, next = VoteRemoved, 0
		upDelta, downDelta = countDeltas(requested, -1)
	default:
		action, next = VoteChanged, requested
		oldUp, oldDown := countDeltas(current, -1)
		newUp, newDown := countDeltas(requested, +1)
		upDelta, downDelta = oldUp+newUp, oldDown+newDown
	}
	return action, next, upDelta, downDelta
}

func countDeltas(value, sign int) (up, down int) {
	if value == models.VoteValueUp {
		return sign, 0
	}
	return 0, sign
}

// directionValue maps a wire direction to the stored vote value.
func directionValue(direction string) (int, error) {
	switch direction {
	case DirectionUp:
		return models.VoteValueUp, nil
	case DirectionDown:
		return models.VoteValueDown, nil
	default:
		return 0, ErrBadDirection
	}
}

// valueDirection maps a stored vote value back to a wire direction.
func valueDirection(value int) string {
	switch value {
	case models.VoteValueUp:
		return DirectionUp
	case models.VoteValueDown:
		return DirectionDown
	default:
		return DirectionNone
	}
}

// Toggle applies one vote toggle for (userID, contentID). The read of the
// current vote, the row mutation, and the count adjustment run inside one
// transaction with the content row locked, so concurrent toggles from the
// same user serialize and the counts always equal the live vote rows.
func (s *VoteService) Toggle(userID, contentID uint, direction string) (*VoteResult, error) {
	value, err := directionValue(direction)
	if err != nil {
		return nil, err
	}

	var result VoteResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		content, err := lockContentItem(tx, contentID)
		if err != nil {
			return err
		}

		current := 0
		var existing models.Vote
		err = tx.Where("user_id = ? AND content_id = ?", userID, contentID).First(&existing).Error
		if err == nil {
			current = existing.Value
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		action, next, upDelta, downDelta := voteTransition(current, value)

		switch action {
		case VoteAdded:
			if err := tx.Create(&models.Vote{UserID: userID, ContentID: contentID, Value: next}).Error; err != nil {
				return err
			}
		case VoteRemoved:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case VoteChanged:
			if err := tx.Model(&existing).UpdateColumn("value", next).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"upvote_count":   gorm.Expr("upvote_count + ?", upDelta),
			"downvote_count": gorm.Expr("downvote_count + ?", downDelta),
		}
		if err := tx.Model(&models.ContentItem{}).Where("id = ?", contentID).UpdateColumns(updates).Error; err != nil {
			return err
		}

		// Read the counts back so the caller gets store truth, not a guess.
		if err := tx.First(content, contentID).Error; err != nil {
			return err
		}

		result = VoteResult{
			Action:        action,
			Direction:     valueDirection(next),
			UpvoteCount:   content.UpvoteCount,
			DownvoteCount: content.DownvoteCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UserVote returns up, down, or none for the pair.
func (s *VoteService) UserVote(userID, contentID uint) (string, error) {
	var vote models.Vote
	err := s.db.Where("user_id = ? AND content_id = ?", userID, contentID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DirectionNone, nil
	}
	if err != nil {
		return "", err
	}
	return valueDirection(vote.Value), nil
}
