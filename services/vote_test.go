package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/engage/models"
)

func TestVoteTransitionTable(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		requested int
		action    string
		next      int
		upDelta   int
		downDelta int
	}{
		{"none to up", 0, models.VoteValueUp, VoteAdded, models.VoteValueUp, 1, 0},
		{"none to down", 0, models.VoteValueDown, VoteAdded, models.VoteValueDown, 0, 1},
		{"up to up removes", models.VoteValueUp, models.VoteValueUp, VoteRemoved, 0, -1, 0},
		{"down to down removes", models.VoteValueDown, models.VoteValueDown, VoteRemoved, 0, 0, -1},
		{"up to down switches", models.VoteValueUp, models.VoteValueDown, VoteChanged, models.VoteValueDown, -1, 1},
		{"down to up switches", models.VoteValueDown, models.VoteValueUp, VoteChanged, models.VoteValueUp, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, next, up, down := voteTransition(tt.current, tt.requested)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.upDelta, up)
			assert.Equal(t, tt.downDelta, down)
		})
	}
}

// Toggling the same direction twice must return counts to their starting
// point and leave no vote behind.
func TestVoteToggleInvolution(t *testing.T) {
	up, down := 10, 3

	_, next, du, dd := voteTransition(0, models.VoteValueUp)
	up, down = up+du, down+dd
	require.Equal(t, 11, up)

	_, next, du, dd = voteTransition(next, models.VoteValueUp)
	up, down = up+du, down+dd

	assert.Equal(t, 0, next, "vote row should be gone")
	assert.Equal(t, 10, up)
	assert.Equal(t, 3, down)
}

// Switching direction moves exactly one unit between the two counters, so
// the combined total changes by at most one per transition.
func TestVoteSwitchConservesTotal(t *testing.T) {
	up, down := 10, 3

	_, next, du, dd := voteTransition(0, models.VoteValueUp)
	up, down = up+du, down+dd

	_, next, du, dd = voteTransition(next, models.VoteValueDown)
	up, down = up+du, down+dd

	assert.Equal(t, models.VoteValueDown, next)
	assert.Equal(t, 10, up, "upvotes back to original")
	assert.Equal(t, 4, down, "downvotes up by exactly one")
}

func TestDirectionValue(t *testing.T) {
	v, err := directionValue(DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteValueUp, v)

	v, err = directionValue(DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteValueDown, v)

	_, err = directionValue("sideways")
	assert.ErrorIs(t, err, ErrBadDirection)
}

func TestValueDirection(t *testing.T) {
	assert.Equal(t, DirectionUp, valueDirection(models.VoteValueUp))
	assert.Equal(t, DirectionDown, valueDirection(models.VoteValueDown))
	assert.Equal(t, DirectionNone, valueDirection(0))
}
