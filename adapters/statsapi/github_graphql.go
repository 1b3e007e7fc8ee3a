package statsapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
)

// contributionsQuery asks for the contribution calendar of the last year, which is
// the default range of contributionsCollection.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions githubv4.Int
			}
		}
	} `graphql:"user(login: $login)"`
}

type gitHubGraphQLGateway struct {
	client *githubv4.Client
}

// NewGitHubGraphQLGateway reads contributions from the GitHub GraphQL API. It needs a
// token and is used instead of the public contributions service when one is configured.
func NewGitHubGraphQLGateway(token string, timeout time.Duration) (service.ContributionProvider, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &gitHubGraphQLGateway{client: githubv4.NewClient(httpClient)}, nil
}

func (g *gitHubGraphQLGateway) LastYearContributions(ctx context.Context, handle string) (int, error) {
	var q contributionsQuery
	variables := map[string]interface{}{
		"login": githubv4.String(handle),
	}
	if err := g.client.Query(ctx, &q, variables); err != nil {
		if strings.Contains(err.Error(), "Could not resolve to a User") {
			return 0, apperror.NewAppError(stats.ErrNotFoundFailure, "GitHub user not found", handle, err)
		}
		return 0, apperror.NewAppError(stats.ErrNetworkFailure, "GitHub request failed", "graphql contributions query", err)
	}
	return int(q.User.ContributionsCollection.ContributionCalendar.TotalContributions), nil
}
