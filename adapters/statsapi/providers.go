package statsapi

import (
	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/config"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// NewProviders builds the two stats providers from config. Contributions come from the
// GitHub GraphQL API when a token is set. cache may be nil.
func NewProviders(cfg config.Config, cache service.StatsCache, log logger.Logger) (service.SolvedCountProvider, service.ContributionProvider, error) {
	timeout := cfg.Stats.RequestTimeout

	var solved service.SolvedCountProvider = NewLeetCodeClient(cfg.Stats.LeetCodeBaseURL, nil, timeout)

	var contribs service.ContributionProvider
	if cfg.GitHub.Token != "" {
		gw, err := NewGitHubGraphQLGateway(cfg.GitHub.Token, timeout)
		if err != nil {
			return nil, nil, err
		}
		contribs = gw
		log.Info("Contributions read from GitHub GraphQL API")
	} else {
		contribs = NewContributionsClient(cfg.Stats.ContributionsBaseURL, nil, timeout)
	}

	if cache != nil {
		solved = NewCachingSolvedProvider(solved, cache, log)
		contribs = NewCachingContributionProvider(contribs, cache, log)
	}
	return solved, contribs, nil
}
