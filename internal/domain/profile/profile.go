package profile

import "github.com/khoahotran/coding-portfolio/internal/domain/stats"

// Profile is the owner's coding profile as shown in the widget.
type Profile struct {
	Handles   stats.Handles
	TUFSolved int
}

// WithOverrides replaces the fetched handles when non-empty, the same way a parent
// component would pass new props to the widget.
func (p Profile) WithOverrides(leetcode, github string) Profile {
	if leetcode != "" {
		p.Handles.LeetCode = leetcode
	}
	if github != "" {
		p.Handles.GitHub = github
	}
	return p
}
