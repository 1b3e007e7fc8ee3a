package statsapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
)

type contributionsResponse struct {
	Total *struct {
		LastYear *int `json:"lastYear"`
	} `json:"total"`
}

type contributionsClient struct {
	client jsonClient
}

// NewContributionsClient reads last-year contributions from a
// github-contributions-api compatible service: GET {baseURL}/v4/{handle}?y=last.
func NewContributionsClient(baseURL string, httpClient *http.Client, timeout time.Duration) service.ContributionProvider {
	return &contributionsClient{client: newJSONClient(httpClient, baseURL, "GitHub", timeout)}
}

func (c *contributionsClient) LastYearContributions(ctx context.Context, handle string) (int, error) {
	var body contributionsResponse
	if err := c.client.getJSON(ctx, "/v4/"+url.PathEscape(handle)+"?y=last", &body); err != nil {
		return 0, err
	}
	if body.Total == nil || body.Total.LastYear == nil {
		return 0, nil
	}
	return *body.Total.LastYear, nil
}
