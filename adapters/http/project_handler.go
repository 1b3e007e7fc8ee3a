package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	showcaseUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/showcase"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

type ProjectHandler struct {
	showcaseUseCase *showcaseUC.ShowcaseUseCase
	logger          logger.Logger
}

func NewProjectHandler(uc *showcaseUC.ShowcaseUseCase, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		showcaseUseCase: uc,
		logger:          log,
	}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	output, err := h.showcaseUseCase.ExecuteList(c.Request.Context())
	if err != nil {
		c.Error(apperror.NewInternal("failed to list projects", err))
		return
	}
	dtos := make([]ProjectCardDTO, len(output.Cards))
	for i, card := range output.Cards {
		dtos[i] = ToProjectCardDTO(card)
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *ProjectHandler) GenerateRSS(c *gin.Context) {
	feed, err := h.showcaseUseCase.ExecuteFeed(c.Request.Context())
	if err != nil {
		c.Error(apperror.NewInternal("failed to generate RSS feed", err))
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")

	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
