package models

import "time"

// Content kinds. Ratable kinds require a 1-5 rating on root reviews.
const (
	KindSkill  = "skill"
	KindPlugin = "plugin"
	KindPost   = "post"
	KindNews   = "news"
)

// ContentItem is any votable/commentable/bookmarkable entity: a skill,
// a marketplace plugin, a discussion post, or a news entry. The count
// columns are authoritative aggregates maintained by the store inside the
// same transaction as the rows they summarize; callers never recompute them.
type ContentItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Cid           string    `gorm:"uniqueIndex;size:12;not null" json:"cid"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Kind          string    `gorm:"size:16;not null;default:'post'" json:"kind"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Body          string    `gorm:"type:text" json:"body"`
	UpvoteCount   int       `gorm:"not null;default:0" json:"upvote_count"`
	DownvoteCount int       `gorm:"not null;default:0" json:"downvote_count"`
	ViewCount     int       `gorm:"not null;default:0" json:"view_count"`
	CommentCount  int       `gorm:"not null;default:0" json:"comment_count"`
	IsPinned      bool      `gorm:"not null;default:false" json:"is_pinned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// Score is the net vote score used by the top and hot orderings.
func (c *ContentItem) Score() int {
	return c.UpvoteCount - c.DownvoteCount
}

// Ratable reports whether root reviews on this item must carry a rating.
func (c *ContentItem) Ratable() bool {
	return c.Kind == KindSkill || c.Kind == KindPlugin
}
