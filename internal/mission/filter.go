package mission

import (
	"fmt"
	"strings"

	"github.com/garnizeh/missiondeck/pkg/models"
)

// Filter selects missions by status for List.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps user input to a Filter. Empty input means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", validationErr("unknown status filter %q", s)
	}
}

// Match reports whether a mission with status st passes the filter.
func (f Filter) Match(st models.MissionStatus) bool {
	switch f {
	case FilterActive:
		return st == models.StatusActive
	case FilterCompleted:
		return st == models.StatusCompleted
	default:
		return true
	}
}

// FormatDuration renders seconds as HH:MM:SS; hours are not capped at 24.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
