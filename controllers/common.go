package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/engage/config"
	"github.com/skillforge/engage/middleware"
	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func isAdmin(ctx *gin.Context) bool {
	unameVal, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return false
	}
	uname, _ := unameVal.(string)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}

// respondServiceError maps the service error taxonomy onto the HTTP
// envelope. Store internals never leak into responses.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case services.IsValidation(err):
		utils.Error(ctx, http.StatusBadRequest, 40030, err.Error())
	case err == services.ErrDuplicateReview:
		utils.Error(ctx, http.StatusConflict, 40930, err.Error())
	case err == services.ErrNotFound:
		utils.Error(ctx, http.StatusNotFound, 40430, "not found")
	case err == services.ErrOwnership:
		utils.Error(ctx, http.StatusForbidden, 40330, "not allowed")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50030, "operation failed")
	}
}
