package statsapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
)

type leetCodeResponse struct {
	TotalSolved *int `json:"totalSolved"`
}

type leetCodeClient struct {
	client jsonClient
}

// NewLeetCodeClient reads the solved count from a leetcode-stats-api compatible
// service: GET {baseURL}/{handle}. httpClient may be nil.
func NewLeetCodeClient(baseURL string, httpClient *http.Client, timeout time.Duration) service.SolvedCountProvider {
	return &leetCodeClient{client: newJSONClient(httpClient, baseURL, "LeetCode", timeout)}
}

func (c *leetCodeClient) SolvedCount(ctx context.Context, handle string) (int, error) {
	var body leetCodeResponse
	if err := c.client.getJSON(ctx, "/"+url.PathEscape(handle), &body); err != nil {
		return 0, err
	}
	if body.TotalSolved == nil {
		return 0, nil
	}
	return *body.TotalSolved, nil
}
