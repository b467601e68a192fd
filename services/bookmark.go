package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/skillforge/engage/models"
)

// Bookmark toggle actions.
const (
	BookmarkAdded   = "added"
	BookmarkRemoved = "removed"
)

// BookmarkResult is the state after a toggle.
type BookmarkResult struct {
	Action     string `json:"action"`
	Bookmarked bool   `json:"bookmarked"`
}

// BookmarkService implements the save/unsave toggle. Content rows carry no
// bookmark counter; lists come from joining the bookmark relation at read
// time.
type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// Toggle inserts or deletes the (user, content) bookmark row.
func (s *BookmarkService) Toggle(userID, contentID uint) (*BookmarkResult, error) {
	var result BookmarkResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var content models.ContentItem
		if err := tx.First(&content, contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.Bookmark
		err := tx.Where("user_id = ? AND content_id = ?", userID, contentID).First(&existing).Error
		if err == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result = BookmarkResult{Action: BookmarkRemoved, Bookmarked: false}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Bookmark{UserID: userID, ContentID: contentID}).Error; err != nil {
			return err
		}
		result = BookmarkResult{Action: BookmarkAdded, Bookmarked: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HasBookmarked reports whether the pair exists.
func (s *BookmarkService) HasBookmarked(userID, contentID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns the user's bookmarks newest first, joined with their
// content items.
func (s *BookmarkService) ListForUser(userID uint, page, pageSize int) ([]models.Bookmark, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookmarks []models.Bookmark
	err := s.db.Preload("Content").Preload("Content.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&bookmarks).Error
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}
