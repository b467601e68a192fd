package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

func TestRespondServiceErrorMapsTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"validation", services.ErrBodyEmpty, http.StatusBadRequest, 40030},
		{"reply depth", services.ErrReplyDepth, http.StatusBadRequest, 40030},
		{"duplicate review is a conflict", services.ErrDuplicateReview, http.StatusConflict, 40930},
		{"not found", services.ErrNotFound, http.StatusNotFound, 40430},
		{"ownership", services.ErrOwnership, http.StatusForbidden, 40330},
		{"anything else", assert.AnError, http.StatusInternalServerError, 50030},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)

			respondServiceError(ctx, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			var body utils.JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}
