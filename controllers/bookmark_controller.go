package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

// BookmarkController exposes the save/unsave toggle and bookmark reads.
type BookmarkController struct {
	content   *services.ContentService
	bookmarks *services.BookmarkService
}

func NewBookmarkController(content *services.ContentService, bookmarks *services.BookmarkService) *BookmarkController {
	return &BookmarkController{content: content, bookmarks: bookmarks}
}

// Toggle flips the bookmark state for the authenticated user.
func (bc *BookmarkController) Toggle(ctx *gin.Context) {
	item, err := bc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	result, err := bc.bookmarks.Toggle(userID, item.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, result)
}

// Status reports whether the authenticated user bookmarked the item.
func (bc *BookmarkController) Status(ctx *gin.Context) {
	item, err := bc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40161, "unauthorized")
		return
	}

	bookmarked, err := bc.bookmarks.HasBookmarked(userID, item.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"bookmarked": bookmarked})
}

// ListMine returns the authenticated user's bookmarks, newest first.
func (bc *BookmarkController) ListMine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40162, "unauthorized")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	bookmarks, total, err := bc.bookmarks.ListForUser(userID, page, services.ContentPageSize)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"bookmarks": bookmarks, "total": total, "page": page})
}
