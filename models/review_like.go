package models

import "time"

// ReviewLike is the (user, review) like relation; existence means "liked".
// Rows are only ever created and deleted through the like toggle, which
// adjusts the review's like_count in the same transaction.
type ReviewLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_review" json:"user_id"`
	ReviewID  uint      `gorm:"not null;index;uniqueIndex:idx_like_user_review" json:"review_id"`
	CreatedAt time.Time `json:"created_at"`
}
