// Package statsapi talks to the public coding-statistics services and maps their
// failures onto the stats error taxonomy.
package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/apperror"
)

// maxBodyBytes bounds how much of a stats response is read.
const maxBodyBytes = 1 << 20

type jsonClient struct {
	httpClient *http.Client
	baseURL    string
	service    string
}

func newJSONClient(httpClient *http.Client, baseURL, service string, timeout time.Duration) jsonClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return jsonClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		service:    service,
	}
}

func (c jsonClient) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperror.NewAppError(stats.ErrNetworkFailure, fmt.Sprintf("%s request failed", c.service), url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.NewAppError(stats.ErrNetworkFailure, fmt.Sprintf("%s request failed", c.service), url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return apperror.NewAppError(stats.ErrNotFoundFailure,
			fmt.Sprintf("%s user not found", c.service),
			fmt.Sprintf("GET %s returned status %d", url, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return apperror.NewAppError(stats.ErrParseFailure, fmt.Sprintf("%s response malformed", c.service), url, err)
	}
	return nil
}
