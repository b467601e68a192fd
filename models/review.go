package models

import "time"

// Review is a comment attached to a content item. A root review has a nil
// ParentID; a reply points at its root through ParentID and is never itself
// a parent (single level of nesting, enforced by the review service).
// Root reviews on ratable content carry a 1-5 rating; replies never do.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"not null;index" json:"content_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Rating    *int      `json:"rating,omitempty"`
	LikeCount int       `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Replies   []Review  `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// IsReply reports whether the review is a nested reply.
func (r *Review) IsReply() bool {
	return r.ParentID != nil
}

// Edited reports whether the review was changed after creation; the UI
// renders its "edited" badge off this comparison.
func (r *Review) Edited() bool {
	return r.UpdatedAt.After(r.CreatedAt.Add(time.Second))
}
