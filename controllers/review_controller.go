package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

// ReviewController exposes the comment thread operations: root reviews,
// single-level replies, like toggles, listing, and a change-watch stream.
type ReviewController struct {
	content *services.ContentService
	reviews *services.ReviewService
	hub     *services.Hub
}

func NewReviewController(content *services.ContentService, reviews *services.ReviewService, hub *services.Hub) *ReviewController {
	return &ReviewController{content: content, reviews: reviews, hub: hub}
}

// List returns one page of root reviews with replies nested oldest-first.
// Changing the sort mode is the client's cue to reset to page 1.
func (rc *ReviewController) List(ctx *gin.Context) {
	item, err := rc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	sortMode := ctx.DefaultQuery("sort", services.ReviewSortNewest)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	result, err := rc.reviews.List(item.ID, sortMode, page)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, result)
}

// Create adds a root review. Rating is required for ratable content and
// rejected elsewhere; the service enforces both.
func (rc *ReviewController) Create(ctx *gin.Context) {
	var req struct {
		Body   string `json:"body" binding:"required"`
		Rating *int   `json:"rating"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	item, err := rc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40170, "unauthorized")
		return
	}

	review, err := rc.reviews.Add(userID, item, utils.Sanitize(req.Body), req.Rating)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:")
	utils.Success(ctx, gin.H{"review": review})
}

// Update edits a review body. Author only.
func (rc *ReviewController) Update(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid request payload")
		return
	}

	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40062, "invalid review id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40171, "unauthorized")
		return
	}

	review, err := rc.reviews.Edit(userID, uint(reviewID), utils.Sanitize(req.Body))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"review": review})
}

// Delete removes a root review with its replies and likes. Author or admin.
func (rc *ReviewController) Delete(ctx *gin.Context) {
	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid review id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40172, "unauthorized")
		return
	}

	if err := rc.reviews.Delete(userID, isAdmin(ctx), uint(reviewID)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:")
	utils.Success(ctx, gin.H{"deleted": true})
}

// CreateReply attaches a reply to a root review. Replying to a reply is
// rejected with a validation error.
func (rc *ReviewController) CreateReply(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40064, "invalid request payload")
		return
	}

	parentID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40065, "invalid review id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40173, "unauthorized")
		return
	}

	reply, err := rc.reviews.AddReply(userID, uint(parentID), utils.Sanitize(req.Body))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:")
	utils.Success(ctx, gin.H{"reply": reply})
}

// DeleteReply removes one reply. Author or admin.
func (rc *ReviewController) DeleteReply(ctx *gin.Context) {
	replyID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40066, "invalid reply id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40174, "unauthorized")
		return
	}

	if err := rc.reviews.DeleteReply(userID, isAdmin(ctx), uint(replyID)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:")
	utils.Success(ctx, gin.H{"deleted": true})
}

// ToggleLike flips the like state on a review and returns the new count.
func (rc *ReviewController) ToggleLike(ctx *gin.Context) {
	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40067, "invalid review id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40175, "unauthorized")
		return
	}

	result, err := rc.reviews.ToggleLike(userID, uint(reviewID))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, result)
}

// Watch streams the item's review thread over SSE, re-reading the full
// thread on every change notification. The subscription is torn down when
// the client disconnects; late notifications after that are simply never
// applied.
func (rc *ReviewController) Watch(ctx *gin.Context) {
	item, err := rc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	sortMode := ctx.DefaultQuery("sort", services.ReviewSortNewest)

	// Coalescing channel: bursts of notifications collapse into one reload.
	changes := make(chan struct{}, 1)
	unsubscribe := rc.hub.Subscribe(item.ID, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	// Initial snapshot so the client starts from store truth.
	if page, err := rc.reviews.List(item.ID, sortMode, 1); err == nil {
		ctx.SSEvent("reviews", page)
		ctx.Writer.Flush()
	}

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case <-changes:
			page, err := rc.reviews.List(item.ID, sortMode, 1)
			if err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Warnf("watch reload failed content=%d err=%v", item.ID, err)
				}
				return true
			}
			ctx.SSEvent("reviews", page)
			return true
		}
	})
}
