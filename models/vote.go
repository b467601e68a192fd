package models

import "time"

// Vote values stored in the value column. The row's value, not its absence,
// carries the direction; removing a vote deletes the row.
const (
	VoteValueUp   = 1
	VoteValueDown = -1
)

// Vote is the (user, content) voting relation. At most one row per pair,
// enforced by the composite unique index.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_content" json:"user_id"`
	ContentID uint      `gorm:"not null;index;uniqueIndex:idx_vote_user_content" json:"content_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
