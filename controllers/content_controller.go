package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

// listCacheTTL is short because hot scores decay with wall-clock time.
const listCacheTTL = time.Minute

// ContentController exposes the content items the engagement engine hangs
// off: ranked listing, detail, creation, pinning, and cascading delete.
type ContentController struct {
	content *services.ContentService
}

func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

// Create stores a new content item for the authenticated author.
func (cc *ContentController) Create(ctx *gin.Context) {
	var req struct {
		Kind  string `json:"kind"`
		Title string `json:"title" binding:"required,min=1"`
		Body  string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "title cannot be empty")
		return
	}
	body := utils.Sanitize(req.Body)

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}

	item, err := cc.content.Create(userID, req.Kind, title, body)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:list:")
	utils.Success(ctx, gin.H{"content": item})
}

// List returns ranked content. Sort modes: hot (default), new, top.
func (cc *ContentController) List(ctx *gin.Context) {
	mode := ctx.DefaultQuery("sort", services.SortHot)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("cache:content:list:sort=%s:page=%d", mode, page)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	items, total, err := cc.content.List(mode, page, time.Now())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"sort":  mode,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, listCacheTTL)
	utils.Success(ctx, payload)
}

// Get returns one item by public id and counts the view.
func (cc *ContentController) Get(ctx *gin.Context) {
	item, err := cc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	cc.content.CountView(item.ID)
	utils.Success(ctx, gin.H{"content": item})
}

// Delete removes an item with all its engagement rows. Author or admin.
func (cc *ContentController) Delete(ctx *gin.Context) {
	item, err := cc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40141, "unauthorized")
		return
	}

	if err := cc.content.Delete(userID, isAdmin(ctx), item.ID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:")
	utils.Success(ctx, gin.H{"deleted": true})
}

// Pin sets or clears the pinned flag. Admin only.
func (cc *ContentController) Pin(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40340, "admin only")
		return
	}

	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	item, err := cc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if err := cc.content.SetPinned(item.ID, req.Pinned); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:list:")
	utils.Success(ctx, gin.H{"pinned": req.Pinned})
}
