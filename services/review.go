package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillforge/engage/models"
)

const (
	// MaxReviewBodyLen is the maximum review/reply body length in characters.
	MaxReviewBodyLen = 2000
	// ReviewPageSize is the fixed page size for root review listings.
	ReviewPageSize = 20
)

// Review thread sort modes.
const (
	ReviewSortPopular = "popular"
	ReviewSortNewest  = "newest"
)

// Like toggle actions.
const (
	LikeAdded   = "added"
	LikeRemoved = "removed"
)

// LikeResult carries the action and the like count read back from the
// review row inside the toggle transaction.
type LikeResult struct {
	Action    string `json:"action"`
	LikeCount int    `json:"like_count"`
}

// ReviewPage is one page of root reviews with their replies nested.
type ReviewPage struct {
	Reviews  []models.Review `json:"reviews"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Sort     string          `json:"sort"`
}

// ReviewService owns the comment thread state machine: root reviews,
// single-level replies, like toggles, and cascading deletes. Every
// mutation publishes a change notification for the content item so
// subscribed readers reload the full thread.
type ReviewService struct {
	db  *gorm.DB
	hub *Hub
}

func NewReviewService(db *gorm.DB, hub *Hub) *ReviewService {
	return &ReviewService{db: db, hub: hub}
}

// validateBody checks the non-empty / max-length rules. Length is counted
// in characters, not bytes.
func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrBodyEmpty
	}
	if utf8.RuneCountInString(body) > MaxReviewBodyLen {
		return ErrBodyTooLong
	}
	return nil
}

// validateRating enforces the rating rules: a root review on ratable
// content must carry a 1-5 rating; anything else must not carry one.
func validateRating(rating *int, ratable bool) error {
	if ratable {
		if rating == nil {
			return ErrRatingRequired
		}
		if *rating < 1 || *rating > 5 {
			return ErrRatingOutOfRange
		}
		return nil
	}
	if rating != nil {
		return ErrRatingNotAllowed
	}
	return nil
}

// Add creates a root review on the content item. On ratable content the
// rating is mandatory and each user gets exactly one root review; on
// discussion content ratings are rejected and users may post freely.
func (s *ReviewService) Add(userID uint, content *models.ContentItem, body string, rating *int) (*models.Review, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := validateRating(rating, content.Ratable()); err != nil {
		return nil, err
	}

	review := models.Review{
		ContentID: content.ID,
		UserID:    userID,
		Body:      body,
		Rating:    rating,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if content.Ratable() {
			if err := guardSingleRootReview(tx, content.ID, userID); err != nil {
				return err
			}
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return bumpCommentCount(tx, content.ID, 1)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&review, review.ID).Error; err != nil {
		return nil, err
	}
	s.hub.Publish(content.ID)
	return &review, nil
}

// guardSingleRootReview enforces one root review per user on a ratable
// item. The content row is locked before the count: without the lock two
// concurrent adds can both count zero and both insert, since the review
// table carries no unique key for the pair.
func guardSingleRootReview(tx *gorm.DB, contentID, userID uint) error {
	if _, err := lockContentItem(tx, contentID); err != nil {
		return err
	}

	var count int64
	err := tx.Model(&models.Review{}).
		Where("content_id = ? AND user_id = ? AND parent_id IS NULL", contentID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateReview
	}
	return nil
}

// Edit updates the body of a review or reply. Author only; the refreshed
// updated_at timestamp is what readers use to render the edited badge.
func (s *ReviewService) Edit(userID, reviewID uint, body string) (*models.Review, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrOwnership
	}

	if err := s.db.Model(&review).Update("body", body).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&review, review.ID).Error; err != nil {
		return nil, err
	}
	s.hub.Publish(review.ContentID)
	return &review, nil
}

// Delete removes a root review together with its replies and every like
// referencing them, and decrements the content comment count by the number
// of removed rows. Author or admin only.
func (s *ReviewService) Delete(userID uint, admin bool, reviewID uint) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if review.IsReply() {
		return s.DeleteReply(userID, admin, reviewID)
	}
	if review.UserID != userID && !admin {
		return ErrOwnership
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return cascadeDeleteRoot(tx, &review)
	})
	if err != nil {
		return err
	}
	s.hub.Publish(review.ContentID)
	return nil
}

// cascadeDeleteRoot removes a root review, its replies, and every like row
// referencing them, then decrements the content comment count by the number
// of removed reviews. Likes go before reviews so no like row ever points at
// a missing review.
func cascadeDeleteRoot(tx *gorm.DB, review *models.Review) error {
	var replyIDs []uint
	if err := tx.Model(&models.Review{}).Where("parent_id = ?", review.ID).Pluck("id", &replyIDs).Error; err != nil {
		return err
	}

	doomed := append([]uint{review.ID}, replyIDs...)
	if err := tx.Where("review_id IN ?", doomed).Delete(&models.ReviewLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id IN ?", doomed).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	return bumpCommentCount(tx, review.ContentID, -len(doomed))
}

// AddReply attaches a reply to a root review. Replies never carry ratings,
// and a reply to a reply is rejected outright: nesting is exactly one
// level deep and the depth limit is an invariant here, not a side effect of
// how threads are queried.
func (s *ReviewService) AddReply(userID, parentID uint, body string) (*models.Review, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}

	var parent models.Review
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if parent.IsReply() {
		return nil, ErrReplyDepth
	}

	reply := models.Review{
		ContentID: parent.ContentID,
		UserID:    userID,
		ParentID:  &parent.ID,
		Body:      body,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return bumpCommentCount(tx, parent.ContentID, 1)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&reply, reply.ID).Error; err != nil {
		return nil, err
	}
	s.hub.Publish(parent.ContentID)
	return &reply, nil
}

// DeleteReply removes a single reply and its likes. Author or admin only.
func (s *ReviewService) DeleteReply(userID uint, admin bool, replyID uint) error {
	var reply models.Review
	if err := s.db.First(&reply, replyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !reply.IsReply() {
		return ErrNotFound
	}
	if reply.UserID != userID && !admin {
		return ErrOwnership
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reply.ID).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&reply).Error; err != nil {
			return err
		}
		return bumpCommentCount(tx, reply.ContentID, -1)
	})
	if err != nil {
		return err
	}
	s.hub.Publish(reply.ContentID)
	return nil
}

// ToggleLike flips the (user, review) like row and adjusts like_count in
// the same transaction, with the review row locked so concurrent toggles
// cannot drift the counter away from the live rows.
func (s *ReviewService) ToggleLike(userID, reviewID uint) (*LikeResult, error) {
	var result LikeResult
	var contentID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.ReviewLike
		err := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&existing).Error
		delta := 0
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.Action = LikeRemoved
			delta = -1
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.ReviewLike{UserID: userID, ReviewID: reviewID}).Error; err != nil {
				return err
			}
			result.Action = LikeAdded
			delta = 1
		default:
			return err
		}

		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
			return err
		}

		if err := tx.First(&review, reviewID).Error; err != nil {
			return err
		}
		result.LikeCount = review.LikeCount
		contentID = review.ContentID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(contentID)
	return &result, nil
}

// List returns one page of root reviews with replies nested oldest-first.
// popular orders by rating, then created_at, then id, all descending; the
// secondary keys make the ordering deterministic when ratings tie. newest
// orders by created_at then id descending. Reply order never follows the
// root sort mode.
func (s *ReviewService) List(contentID uint, sortMode string, page int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if sortMode != ReviewSortPopular {
		sortMode = ReviewSortNewest
	}

	roots := s.db.Model(&models.Review{}).Where("content_id = ? AND parent_id IS NULL", contentID)

	var total int64
	if err := roots.Count(&total).Error; err != nil {
		return nil, err
	}

	order := "created_at DESC, id DESC"
	if sortMode == ReviewSortPopular {
		order = "rating DESC, created_at DESC, id DESC"
	}

	var reviews []models.Review
	err := s.db.Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.User").
		Where("content_id = ? AND parent_id IS NULL", contentID).
		Order(order).
		Limit(ReviewPageSize).Offset((page - 1) * ReviewPageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return &ReviewPage{
		Reviews:  reviews,
		Total:    total,
		Page:     page,
		PageSize: ReviewPageSize,
		Sort:     sortMode,
	}, nil
}

// HasLiked reports whether the user has liked the review.
func (s *ReviewService) HasLiked(userID, reviewID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReviewLike{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func bumpCommentCount(tx *gorm.DB, contentID uint, delta int) error {
	return tx.Model(&models.ContentItem{}).Where("id = ?", contentID).
		UpdateColumn("comment_count", gorm.Expr("GREATEST(comment_count + ?, 0)", delta)).Error
}
