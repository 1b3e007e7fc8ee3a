package http

import (
	showcaseUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/showcase"
	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
)

// Profile DTOs
type StatsDTO struct {
	Cycle   uint64         `json:"cycle"`
	Handles stats.Handles  `json:"handles"`
	Stats   stats.Rendered `json:"stats"`
}

type refreshResponse struct {
	Cycle   uint64 `json:"cycle"`
	Started bool   `json:"started"`
}

// Insights DTOs
type DailyViewsDTO struct {
	Path string                `json:"path"`
	Days []pageview.DailyCount `json:"days"`
}

// Showcase DTOs
type ProjectCardDTO struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	RepositoryURL string `json:"repository_url"`
}

func ToProjectCardDTO(c showcaseUC.Card) ProjectCardDTO {
	return ProjectCardDTO{
		Slug:          c.Slug,
		Title:         c.Title,
		Description:   c.Description,
		ImageURL:      c.ImageURL,
		RepositoryURL: c.RepositoryURL,
	}
}

// Page view model
type pageData struct {
	Owner          string
	Stats          stats.Rendered
	Cards          []showcaseUC.Card
	RefreshSeconds int
}
