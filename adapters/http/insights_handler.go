package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pageviewUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// InsightsHandler serves the owner's read-only view of what the worker stored.
type InsightsHandler struct {
	useCase *pageviewUC.InsightsUseCase
	owner   stats.Handles
	logger  logger.Logger
}

func NewInsightsHandler(uc *pageviewUC.InsightsUseCase, owner stats.Handles, log logger.Logger) *InsightsHandler {
	return &InsightsHandler{useCase: uc, owner: owner, logger: log}
}

// DailyViews handles GET /api/admin/views?path=/&limit=30.
func (h *InsightsHandler) DailyViews(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.Error(apperror.NewInvalidInput("limit must be a positive integer", err))
			return
		}
		limit = n
	}

	counts, err := h.useCase.ExecuteDailyViews(c.Request.Context(), c.DefaultQuery("path", "/"), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, DailyViewsDTO{Path: c.DefaultQuery("path", "/"), Days: counts})
}

// LatestSnapshot handles GET /api/admin/stats/latest. The leetcode and github query
// parameters select another handle pair than the owner's.
func (h *InsightsHandler) LatestSnapshot(c *gin.Context) {
	handles := h.owner
	if lc := c.Query("leetcode"); lc != "" {
		handles.LeetCode = lc
	}
	if gh := c.Query("github"); gh != "" {
		handles.GitHub = gh
	}

	settled, err := h.useCase.ExecuteLatestSnapshot(c.Request.Context(), handles)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settled)
}
