package showcase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/domain/project"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

type ShowcaseUseCase struct {
	projectRepo project.Repository
	images      service.ImageResolver
	baseURL     string
	owner       string
	logger      logger.Logger
}

func NewShowcaseUseCase(repo project.Repository, images service.ImageResolver, baseURL, owner string, log logger.Logger) *ShowcaseUseCase {
	return &ShowcaseUseCase{
		projectRepo: repo,
		images:      images,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		owner:       owner,
		logger:      log,
	}
}

type Card struct {
	Slug          string
	Title         string
	Description   string
	ImageURL      string
	ImageAlt      string
	RepositoryURL string
}

type ListOutput struct {
	Cards []Card
}

// ExecuteList returns one card per showcase entry, in list order.
func (uc *ShowcaseUseCase) ExecuteList(ctx context.Context) (*ListOutput, error) {
	entries, err := uc.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list showcase entries failed: %w", err)
	}

	cards := make([]Card, len(entries))
	for i, e := range entries {
		cards[i] = Card{
			Slug:          e.Slug(),
			Title:         e.Title,
			Description:   e.Description,
			ImageURL:      uc.images.Resolve(e.ImageURL),
			ImageAlt:      fmt.Sprintf("%s project preview", e.Title),
			RepositoryURL: e.RepositoryURL,
		}
	}
	return &ListOutput{Cards: cards}, nil
}

// ExecuteFeed renders the showcase as a feed. Entries without a real repository link
// point at their card on the page.
func (uc *ShowcaseUseCase) ExecuteFeed(ctx context.Context) (*feeds.Feed, error) {
	out, err := uc.ExecuteList(ctx)
	if err != nil {
		uc.logger.Error("Failed to list showcase for feed", err)
		return nil, err
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - Projects", uc.owner),
		Link:        &feeds.Link{Href: uc.baseURL + "/"},
		Description: "Projects from the portfolio showcase.",
		Author:      &feeds.Author{Name: uc.owner},
		Created:     time.Now(),
	}

	for _, c := range out.Cards {
		link := c.RepositoryURL
		if !strings.HasPrefix(link, "http") {
			link = fmt.Sprintf("%s/#%s", uc.baseURL, c.Slug)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          c.Slug,
			Title:       c.Title,
			Link:        &feeds.Link{Href: link},
			Description: c.Description,
			Created:     feed.Created,
		})
	}

	uc.logger.Info("Showcase feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
