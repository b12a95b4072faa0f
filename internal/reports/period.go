package reports

import (
	"fmt"
	"strings"
	"time"
)

// Period is the granularity of a reporting window.
type Period int

const (
	Monthly Period = iota
	Quarterly
	Semesterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "month"
	case Quarterly:
		return "quarter"
	case Semesterly:
		return "semester"
	case Yearly:
		return "year"
	default:
		return "period"
	}
}

// ParsePeriod parses a period name.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "monthly":
		return Monthly, nil
	case "quarter", "quarterly":
		return Quarterly, nil
	case "semester", "semesterly":
		return Semesterly, nil
	case "year", "yearly", "annual":
		return Yearly, nil
	default:
		return Monthly, fmt.Errorf("unknown period %q", s)
	}
}

// Spec labels a reporting window: a period, a year, and for sub-year periods
// the month anchoring the window.
type Spec struct {
	Period Period
	Year   int
	Month  time.Month // ignored for Yearly
}

// Range returns the half-open [from, to) window for the spec, in UTC.
func (s Spec) Range() (time.Time, time.Time) {
	switch s.Period {
	case Quarterly:
		q := (int(s.Month) - 1) / 3 // 0-based quarter
		from := time.Date(s.Year, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 3, 0)
	case Semesterly:
		sem := (int(s.Month) - 1) / 6
		from := time.Date(s.Year, time.Month(sem*6+1), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 6, 0)
	case Yearly:
		from := time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	default:
		from := time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	}
}

// Label is the human-readable window name, e.g. "2025-03", "2025-T2",
// "2025-S1" or "2025".
func (s Spec) Label() string {
	switch s.Period {
	case Quarterly:
		return fmt.Sprintf("%d-T%d", s.Year, (int(s.Month)-1)/3+1)
	case Semesterly:
		return fmt.Sprintf("%d-S%d", s.Year, (int(s.Month)-1)/6+1)
	case Yearly:
		return fmt.Sprintf("%d", s.Year)
	default:
		return fmt.Sprintf("%d-%02d", s.Year, int(s.Month))
	}
}
