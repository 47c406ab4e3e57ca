package dates

import (
	"fmt"
	"strings"
	"time"
)

// Window is a named calendar span over which analytics are computed.
type Window string

const (
	WindowToday     Window = "today"
	WindowThisWeek  Window = "this_week"
	WindowThisMonth Window = "this_month"
	WindowThisYear  Window = "this_year"
)

// ParseWindow parses a window name.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return WindowToday, nil
	case "this_week", "week":
		return WindowThisWeek, nil
	case "this_month", "month":
		return WindowThisMonth, nil
	case "this_year", "year":
		return WindowThisYear, nil
	default:
		return "", fmt.Errorf("unknown window %q", s)
	}
}

func (w Window) String() string { return string(w) }

// Span returns the calendar span of the window relative to the given date.
// Weeks run Monday through Sunday.
func (w Window) Span(now Date) Range {
	switch w {
	case WindowToday:
		return Range{From: now, To: now}
	case WindowThisWeek:
		offset := int(now.Weekday() - time.Monday)
		if offset < 0 {
			offset += 7
		}
		monday := now.Add(-offset)
		return Range{From: monday, To: monday.Add(6)}
	case WindowThisMonth:
		return Range{
			From: NewDate(now.Year(), now.Month(), 1),
			To:   NewDate(now.Year(), now.Month()+1, 0),
		}
	case WindowThisYear:
		return Range{
			From: NewDate(now.Year(), time.January, 1),
			To:   NewDate(now.Year()+1, time.January, 0),
		}
	default:
		return Range{From: now, To: now}
	}
}
