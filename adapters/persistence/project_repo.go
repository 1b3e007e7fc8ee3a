package persistence

import (
	"context"

	"github.com/khoahotran/coding-portfolio/internal/domain/project"
)

// showcaseEntries is the fixed project grid. It is compiled in and never mutated.
var showcaseEntries = [...]project.Entry{
	{
		Title:         "Bob",
		Description:   "Crowdsourced Intelligence, Blockchain-Powered Rewards",
		ImageURL:      "https://placehold.co/600x400/000000/FFF?text=Bob+Project",
		RepositoryURL: "#",
	},
	{
		Title:         "Ussop",
		Description:   "Enterprise ready video conferencing web app",
		ImageURL:      "https://placehold.co/600x400/000000/FFF?text=Ussop+Project",
		RepositoryURL: "#",
	},
	{
		Title:         "Sakhi",
		Description:   "True independence starts with a sense of safety",
		ImageURL:      "https://placehold.co/600x400/000000/FFF?text=Sakhi+Project",
		RepositoryURL: "#",
	},
	{
		Title:         "Test.ai",
		Description:   "Personalized Test & Feedback Platform",
		ImageURL:      "https://placehold.co/600x400/000000/FFF?text=Test.ai+Project",
		RepositoryURL: "#",
	},
}

type staticProjectRepo struct{}

func NewStaticProjectRepo() project.Repository {
	return staticProjectRepo{}
}

// List returns a copy so callers cannot alter the compiled-in entries.
func (staticProjectRepo) List(ctx context.Context) ([]project.Entry, error) {
	out := make([]project.Entry, len(showcaseEntries))
	copy(out, showcaseEntries[:])
	return out, nil
}
