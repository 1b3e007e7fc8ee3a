package project

import (
	"context"
	"regexp"
	"strings"
)

// Entry is one card of the showcase grid. Entries are fixed at build time.
type Entry struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	RepositoryURL string `json:"repository_url"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// Slug is a stable identifier derived from the title, e.g. "Test.ai" -> "test-ai".
func (e Entry) Slug() string {
	s := strings.ToLower(strings.TrimSpace(e.Title))
	s = strings.NewReplacer(" ", "-", ".", "-", "_", "-").Replace(s)
	return strings.Trim(slugStrip.ReplaceAllString(s, ""), "-")
}

type Repository interface {
	List(ctx context.Context) ([]Entry, error)
}
