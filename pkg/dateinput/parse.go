package dateinput

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ErrParsing = errors.New("error parsing date")

type multiplier struct {
	key   string
	value int
}

var multipliers = []multiplier{
	{"days", 1},
	{"weeks", 7},
	{"months", 30},
	{"years", 365},
}

var ordinal = regexp.MustCompile(`([0-9])(st|nd|rd|th)\b`)

// Parse reads a due date typed by a user, relative to now.
// Day-only inputs resolve to midnight in now's location.
func Parse(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	s = strings.ToLower(raw)
	if s == "" {
		return time.Time{}, ErrParsing
	}
	today := startOfDay(now)
	switch s {
	case "today", "tod", "now":
		return today, nil
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), nil
	case "yesterday", "yday":
		return today.AddDate(0, 0, -1), nil
	}
	if wd, ok := parseWeekday(s); ok {
		return nextWeekday(today, wd), nil
	}
	if days, err := parseRelative(s); err == nil {
		return today.AddDate(0, 0, days), nil
	}
	if t, err := parseAbsolute(ordinal.ReplaceAllString(s, "$1"), today); err == nil {
		return t, nil
	}
	// ISO 8601 and the many formats people paste in
	if t, err := dateparse.ParseIn(raw, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, ErrParsing
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseWeekday(s string) (time.Weekday, bool) {
	for i := time.Sunday; i <= time.Saturday; i++ {
		name := strings.ToLower(i.String())
		if s == name || s == name[:3] {
			return i, true
		}
	}
	return 0, false
}

// nextWeekday returns the next d strictly after t
func nextWeekday(t time.Time, d time.Weekday) time.Time {
	days := int(d - t.Weekday())
	if days <= 0 {
		days += 7
	}
	return t.AddDate(0, 0, days)
}

// parseRelative reads "in 3 days", "2w", "+1", "1 day ago" as a day offset
func parseRelative(s string) (int, error) {
	s = strings.TrimPrefix(s, "in")
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasSuffix(s, "ago") {
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "ago"))
	}
	if len(s) >= 1 {
		switch s[0] {
		case '-':
			negative = !negative
			s = s[1:]
		case '+':
			s = s[1:]
		}
	}

	var n int
	// parse quantity
	{
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, ErrParsing
		}
		var err error
		n, err = strconv.Atoi(s[:i])
		if err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s[i:])
	}

	mult := 1
	if len(s) > 0 {
		mult = 0
		for _, m := range multipliers {
			end := min(len(m.key), len(s))
			if m.key[:end] == s {
				mult = m.value
				break
			}
		}
		if mult == 0 {
			return 0, errors.New("unexpected postfix, expected 'days', 'weeks', 'months', or 'years'")
		}
	}
	if negative {
		n = -n
	}
	return n * mult, nil
}

type format struct {
	layout   string
	hasMonth bool
	hasYear  bool
}

var formats = []format{
	// a bare number is a day offset in Parse, so this only sees ordinals like "20th"
	{"_2", false, false},
	{"_2/01", true, false},
	{"_2/01/06", true, true},
	{"_2/01/2006", true, true},
	{"_2-01", true, false},
	{"_2-01-06", true, true},
	{"_2-01-2006", true, true},
	{"Jan _2", true, false},
	{"Jan _2 06", true, true},
	{"Jan _2 2006", true, true},
	{"January _2", true, false},
	{"January _2 06", true, true},
	{"January _2 2006", true, true},
	{"_2 Jan", true, false},
	{"_2 Jan 06", true, true},
	{"_2 Jan 2006", true, true},
	{"_2 January", true, false},
	{"_2 January 06", true, true},
	{"_2 January 2006", true, true},
}

// parseAbsolute reads a day/month/year date; a missing month or year is taken from today
func parseAbsolute(s string, today time.Time) (time.Time, error) {
	for _, f := range formats {
		t, err := time.Parse(f.layout, s)
		if err != nil {
			continue
		}
		year, month := t.Year(), t.Month()
		if !f.hasYear {
			year = today.Year()
		}
		if !f.hasMonth {
			month = today.Month()
		}
		return time.Date(year, month, t.Day(), 0, 0, 0, 0, today.Location()), nil
	}
	return time.Time{}, errors.New("format not found")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
