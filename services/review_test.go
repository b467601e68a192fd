package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillforge/engage/models"
)

// newDryRunDB opens a gorm handle that builds SQL without ever touching a
// database, so statement shape and ordering can be asserted directly.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "engage:engage@tcp(127.0.0.1:3306)/engage?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestValidateBody(t *testing.T) {
	assert.NoError(t, validateBody("nice skill"))
	assert.ErrorIs(t, validateBody(""), ErrBodyEmpty)
	assert.ErrorIs(t, validateBody("   \n\t "), ErrBodyEmpty)

	assert.NoError(t, validateBody(strings.Repeat("x", MaxReviewBodyLen)))
	assert.ErrorIs(t, validateBody(strings.Repeat("x", MaxReviewBodyLen+1)), ErrBodyTooLong)
}

// Length is counted in characters, not bytes: 2000 multibyte runes are fine
// even though they exceed 2000 bytes.
func TestValidateBodyCountsRunes(t *testing.T) {
	assert.NoError(t, validateBody(strings.Repeat("评", MaxReviewBodyLen)))
	assert.ErrorIs(t, validateBody(strings.Repeat("评", MaxReviewBodyLen+1)), ErrBodyTooLong)
}

// Two concurrent adds from the same user must not both pass the duplicate
// check. The guard therefore takes the content row lock before counting;
// this pins the statement order and the FOR UPDATE clause.
func TestRootReviewGuardLocksBeforeCounting(t *testing.T) {
	db := newDryRunDB(t)

	var stmts []string
	err := db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		stmts = append(stmts, tx.Statement.SQL.String())
	})
	require.NoError(t, err)

	require.NoError(t, guardSingleRootReview(db, 42, 7))

	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "content_items")
	assert.Contains(t, stmts[0], "FOR UPDATE")
	assert.Contains(t, stmts[1], "count(*)")
	assert.Contains(t, stmts[1], "parent_id IS NULL")
}

// Deleting a root review removes like rows first, then the root and its
// replies in one statement, then adjusts the comment count.
func TestCascadeDeleteRootStatementOrder(t *testing.T) {
	db := newDryRunDB(t)

	var stmts []string
	capture := func(tx *gorm.DB) {
		stmts = append(stmts, tx.Statement.SQL.String())
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_query", capture))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("capture_delete", capture))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("capture_update", capture))

	root := &models.Review{ID: 11, ContentID: 3}
	require.NoError(t, cascadeDeleteRoot(db, root))

	require.Len(t, stmts, 4)
	assert.Contains(t, stmts[0], "parent_id")
	assert.Contains(t, stmts[1], "DELETE")
	assert.Contains(t, stmts[1], "review_likes")
	assert.Contains(t, stmts[2], "DELETE")
	assert.Contains(t, stmts[2], "reviews")
	assert.Contains(t, stmts[3], "comment_count")
	assert.Contains(t, stmts[3], "GREATEST")
}

func TestValidateRating(t *testing.T) {
	four := 4
	zero := 0
	six := 6

	// Ratable content demands a rating in range.
	assert.ErrorIs(t, validateRating(nil, true), ErrRatingRequired)
	assert.ErrorIs(t, validateRating(&zero, true), ErrRatingOutOfRange)
	assert.ErrorIs(t, validateRating(&six, true), ErrRatingOutOfRange)
	assert.NoError(t, validateRating(&four, true))

	// Discussion content rejects ratings entirely.
	assert.NoError(t, validateRating(nil, false))
	assert.ErrorIs(t, validateRating(&four, false), ErrRatingNotAllowed)
}

func TestIsValidationClassifiesTaxonomy(t *testing.T) {
	assert.True(t, IsValidation(ErrBodyEmpty))
	assert.True(t, IsValidation(ErrBodyTooLong))
	assert.True(t, IsValidation(ErrRatingRequired))
	assert.True(t, IsValidation(ErrRatingOutOfRange))
	assert.True(t, IsValidation(ErrRatingNotAllowed))
	assert.True(t, IsValidation(ErrReplyDepth))
	assert.True(t, IsValidation(ErrBadDirection))

	// Conflicts and the other classes are not validation failures.
	assert.False(t, IsValidation(ErrDuplicateReview))
	assert.False(t, IsValidation(ErrNotFound))
	assert.False(t, IsValidation(ErrOwnership))
	assert.False(t, IsValidation(assert.AnError))
}
