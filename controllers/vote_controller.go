package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

// VoteController exposes the up/down vote toggle for content items.
type VoteController struct {
	content *services.ContentService
	votes   *services.VoteService
}

func NewVoteController(content *services.ContentService, votes *services.VoteService) *VoteController {
	return &VoteController{content: content, votes: votes}
}

// Toggle applies one vote toggle and returns the action taken plus the
// authoritative counts. Callers treat this response as the source of truth
// and discard any optimistic local value.
func (vc *VoteController) Toggle(ctx *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	item, err := vc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return
	}

	result, err := vc.votes.Toggle(userID, item.ID, req.Direction)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:content:list:")
	utils.Success(ctx, result)
}

// Status returns up, down, or none for the authenticated user.
func (vc *VoteController) Status(ctx *gin.Context) {
	item, err := vc.content.GetByCid(ctx.Param("cid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40151, "unauthorized")
		return
	}

	direction, err := vc.votes.UserVote(userID, item.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"direction": direction})
}
