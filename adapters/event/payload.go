package event

import (
	"encoding/json"
	"fmt"

	"github.com/khoahotran/coding-portfolio/internal/domain/pageview"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
)

func DecodePageView(value []byte) (pageview.PageView, error) {
	var v pageview.PageView
	if err := json.Unmarshal(value, &v); err != nil {
		return v, fmt.Errorf("decode page view: %w", err)
	}
	if v.Path == "" {
		return v, fmt.Errorf("decode page view: empty path")
	}
	return v, nil
}

func DecodeStatsSettled(value []byte) (stats.Settled, error) {
	var s stats.Settled
	if err := json.Unmarshal(value, &s); err != nil {
		return s, fmt.Errorf("decode stats settled: %w", err)
	}
	if s.Cycle == 0 {
		return s, fmt.Errorf("decode stats settled: missing cycle")
	}
	return s, nil
}
