package stats

import "strconv"

// Rendered is the display form of the widget: every value is a ready-to-print string.
type Rendered struct {
	TUFSolved     string `json:"tuf_solved"`
	Solved        string `json:"solved"`
	Contributions string `json:"contributions"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`

	TUFProfileURL      string `json:"tuf_profile_url"`
	LeetCodeProfileURL string `json:"leetcode_profile_url"`
	GitHubProfileURL   string `json:"github_profile_url"`
}

// Render applies the display rule: pending marker while loading, not-available marker
// once any error is recorded, the numbers otherwise. tufSolved is never masked.
func Render(s Snapshot, tufSolved int) Rendered {
	return Rendered{
		TUFSolved:          strconv.Itoa(tufSolved),
		Solved:             renderStat(s.Stats, s.Stats.SolvedCount),
		Contributions:      renderStat(s.Stats, s.Stats.ContributionCount),
		Loading:            s.Stats.Loading,
		Error:              s.Stats.ErrorMessage,
		TUFProfileURL:      s.Handles.TUFProfileURL(),
		LeetCodeProfileURL: s.Handles.LeetCodeProfileURL(),
		GitHubProfileURL:   s.Handles.GitHubProfileURL(),
	}
}

func renderStat(ps ProfileStats, v *int) string {
	if ps.Loading {
		return PendingMarker
	}
	if ps.ErrorMessage != "" {
		return NotAvailableMarker
	}
	if v == nil {
		return PendingMarker
	}
	return strconv.Itoa(*v)
}
