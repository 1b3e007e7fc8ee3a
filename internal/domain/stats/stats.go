package stats

import (
	"errors"
	"fmt"
	"time"
)

const (
	PendingMarker      = "..."
	NotAvailableMarker = "N/A"

	// DisplayErrorMessage is the only failure text shown on the page; causes go to the logs.
	DisplayErrorMessage = "Failed to fetch data"
)

var (
	ErrNetworkFailure  = errors.New("stats service unreachable")
	ErrNotFoundFailure = errors.New("stats user not found")
	ErrParseFailure    = errors.New("stats response malformed")
)

// Handles address the three coding platforms shown in the widget.
type Handles struct {
	LeetCode string `json:"leetcode"`
	GitHub   string `json:"github"`
	TUF      string `json:"tuf"`
}

// FetchKey is the pair of identifiers whose change starts a new fetch cycle.
// The TUF handle is only linked, never fetched.
func (h Handles) FetchKey() string {
	return h.LeetCode + "\x00" + h.GitHub
}

func (h Handles) LeetCodeProfileURL() string {
	return fmt.Sprintf("https://leetcode.com/%s", h.LeetCode)
}

func (h Handles) GitHubProfileURL() string {
	return fmt.Sprintf("https://github.com/%s", h.GitHub)
}

func (h Handles) TUFProfileURL() string {
	return fmt.Sprintf("https://takeuforward.org/plus/profile/%s", h.TUF)
}

// ProfileStats is the render state of one fetch cycle. A nil count is a placeholder.
type ProfileStats struct {
	SolvedCount       *int   `json:"solved_count"`
	ContributionCount *int   `json:"contribution_count"`
	Loading           bool   `json:"loading"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

// Snapshot is a point-in-time copy of the widget.
type Snapshot struct {
	Cycle   uint64
	Handles Handles
	Stats   ProfileStats
}

// Settled describes a finished fetch cycle.
type Settled struct {
	Cycle         uint64    `json:"cycle"`
	Handles       Handles   `json:"handles"`
	Solved        *int      `json:"solved,omitempty"`
	Contributions *int      `json:"contributions,omitempty"`
	Error         string    `json:"error,omitempty"`
	SettledAt     time.Time `json:"settled_at"`
}
