package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pageviewUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/pageview"
	profileUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/profile"
	showcaseUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/showcase"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

const pageRefreshSeconds = 2

type ProfileHandler struct {
	profileUseCase  *profileUC.ProfileUseCase
	showcaseUseCase *showcaseUC.ShowcaseUseCase
	pageViewUseCase *pageviewUC.RecordPageViewUseCase
	owner           string
	logger          logger.Logger
}

func NewProfileHandler(
	profileUseCase *profileUC.ProfileUseCase,
	showcaseUseCase *showcaseUC.ShowcaseUseCase,
	pageViewUseCase *pageviewUC.RecordPageViewUseCase,
	owner string,
	log logger.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase:  profileUseCase,
		showcaseUseCase: showcaseUseCase,
		pageViewUseCase: pageViewUseCase,
		owner:           owner,
		logger:          log,
	}
}

// Page renders the portfolio. The leetcode and github query parameters override the
// configured handles for this render.
func (h *ProfileHandler) Page(c *gin.Context) {
	ctx := c.Request.Context()

	profileOut, err := h.profileUseCase.ExecuteGetProfile(ctx, profileUC.GetProfileInput{
		LeetCodeHandle: c.Query("leetcode"),
		GitHubHandle:   c.Query("github"),
	})
	if err != nil {
		c.Error(apperror.NewInternal("failed to render profile", err))
		return
	}

	showcaseOut, err := h.showcaseUseCase.ExecuteList(ctx)
	if err != nil {
		c.Error(apperror.NewInternal("failed to list projects", err))
		return
	}

	h.pageViewUseCase.Execute(ctx, pageviewUC.RecordPageViewInput{
		Path:    c.Request.URL.Path,
		Handles: profileOut.Profile.Handles,
	})

	c.HTML(http.StatusOK, "page.tmpl", pageData{
		Owner:          h.owner,
		Stats:          profileOut.Stats,
		Cards:          showcaseOut.Cards,
		RefreshSeconds: pageRefreshSeconds,
	})
}

// GetStats returns the current widget state without waiting unless asked to with
// ?wait=<duration>.
func (h *ProfileHandler) GetStats(c *gin.Context) {
	wait := time.Duration(-1)
	if raw := c.Query("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			c.Error(apperror.NewInvalidInput("wait must be a positive duration", err))
			return
		}
		wait = d
	}

	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), profileUC.GetProfileInput{
		LeetCodeHandle: c.Query("leetcode"),
		GitHubHandle:   c.Query("github"),
		Wait:           wait,
	})
	if err != nil {
		c.Error(apperror.NewInternal("failed to read stats", err))
		return
	}

	c.JSON(http.StatusOK, StatsDTO{
		Cycle:   output.Cycle,
		Handles: output.Profile.Handles,
		Stats:   output.Stats,
	})
}

func (h *ProfileHandler) RefreshStats(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.profileUseCase.ExecuteRefreshStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Info("Stats refresh requested",
		zap.String("owner_id", ownerID.String()),
		zap.String("cycle", strconv.FormatUint(output.Cycle, 10)),
	)
	c.JSON(http.StatusAccepted, refreshResponse{Cycle: output.Cycle, Started: output.Started})
}
