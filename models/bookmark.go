package models

import "time"

// Bookmark is the (user, content) save relation. Existence is the only
// state; bookmark lists are derived by joining against content at read time,
// so content rows carry no bookmark counter.
type Bookmark struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;index;uniqueIndex:idx_bookmark_user_content" json:"user_id"`
	ContentID uint        `gorm:"not null;uniqueIndex:idx_bookmark_user_content" json:"content_id"`
	Content   ContentItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
