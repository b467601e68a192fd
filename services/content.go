package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillforge/engage/models"
)

const (
	// ContentPageSize is the page size for ranked content listings.
	ContentPageSize = 20
	// rankWindow caps how many items one ranking pass considers; older
	// unpinned items past this window never reach the front pages anyway.
	rankWindow = 500
)

// ContentService hosts the entities everything else hangs off: creation,
// ranked listing, detail reads with view counting, pinning, and the
// cascading delete that takes votes, bookmarks, reviews, and likes with it.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// Create stores a new content item for the author. The public cid is what
// URLs use; numeric ids stay internal.
func (s *ContentService) Create(userID uint, kind, title, body string) (*models.ContentItem, error) {
	if !validKind(kind) {
		kind = models.KindPost
	}

	item := models.ContentItem{
		Cid:    newCid(),
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&item, item.ID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByCid loads one item by its public id.
func (s *ContentService) GetByCid(cid string) (*models.ContentItem, error) {
	var item models.ContentItem
	err := s.db.Preload("User").Where("cid = ?", cid).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CountView bumps the view counter without touching updated_at.
func (s *ContentService) CountView(contentID uint) {
	_ = s.db.Model(&models.ContentItem{}).Where("id = ?", contentID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// List returns one page of content ordered by the requested mode. Ranking
// happens in memory over a bounded snapshot so the pure Rank function is
// the single ordering authority for lists and tests alike.
func (s *ContentService) List(mode string, page int, now time.Time) ([]models.ContentItem, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.db.Model(&models.ContentItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.ContentItem
	err := s.db.Preload("User").
		Order("created_at DESC").
		Limit(rankWindow).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	ranked := Rank(items, mode, now)

	start := (page - 1) * ContentPageSize
	if start >= len(ranked) {
		return []models.ContentItem{}, total, nil
	}
	end := start + ContentPageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end], total, nil
}

// SetPinned flips the administrative pin flag.
func (s *ContentService) SetPinned(contentID uint, pinned bool) error {
	res := s.db.Model(&models.ContentItem{}).Where("id = ?", contentID).
		UpdateColumn("is_pinned", pinned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a content item and cascades to its votes, bookmarks,
// reviews, replies, and review likes in one transaction. Author or admin
// only.
func (s *ContentService) Delete(userID uint, admin bool, contentID uint) error {
	var item models.ContentItem
	if err := s.db.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if item.UserID != userID && !admin {
		return ErrOwnership
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var reviewIDs []uint
		if err := tx.Model(&models.Review{}).Where("content_id = ?", contentID).Pluck("id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.ReviewLike{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("content_id = ?", contentID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", contentID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", contentID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// lockContentItem reads the content row under a FOR UPDATE lock. Writers
// that adjust the item's counters, and guards that must count related rows
// before inserting, all take this lock so their transactions serialize per
// item.
func lockContentItem(tx *gorm.DB, contentID uint) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func validKind(kind string) bool {
	switch kind {
	case models.KindSkill, models.KindPlugin, models.KindPost, models.KindNews:
		return true
	}
	return false
}

// newCid derives a short public id from a v4 uuid.
func newCid() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
