package restaurant

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a lower-case English day name used as the opening-hours key.
type Weekday string

// Weekdays in calendar order.
const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays lists every weekday in calendar order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var japaneseDays = []struct {
	marker string
	day    Weekday
}{
	{"月", Monday}, {"火", Tuesday}, {"水", Wednesday}, {"木", Thursday},
	{"金", Friday}, {"土", Saturday}, {"日", Sunday},
}

// IsValid checks if the weekday is one of the supported values.
func (d Weekday) IsValid() bool {
	for _, w := range AllWeekdays {
		if d == w {
			return true
		}
	}
	return false
}

// ParseDays resolves a day expression into weekdays. It understands English
// names, 平日 / 週末 / 土日, and Japanese day markers (月曜日, 金土 ...).
// Unrecognised input yields nil.
func ParseDays(s string) []Weekday {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if d := Weekday(strings.ToLower(s)); d.IsValid() {
		return []Weekday{d}
	}
	switch {
	case strings.Contains(s, "毎日"):
		return AllWeekdays
	case strings.Contains(s, "平日"):
		return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
	case strings.Contains(s, "週末"), strings.Contains(s, "土日"):
		return []Weekday{Saturday, Sunday}
	}
	// 月曜日 carries a trailing 日 that is not Sunday.
	s = strings.NewReplacer("曜日", "", "曜", "").Replace(s)
	var days []Weekday
	for _, jd := range japaneseDays {
		if strings.Contains(s, jd.marker) {
			days = append(days, jd.day)
		}
	}
	return days
}

// Hours is a single day's opening window in "HH:MM". Close may be past 24:00
// or earlier than Open to express service after midnight.
type Hours struct {
	Open  string
	Close string
}

// Validate checks both times parse.
func (h Hours) Validate() error {
	if _, err := ParseClock(h.Open); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if _, err := ParseClock(h.Close); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// span returns the window in minutes since midnight with close normalised past open.
func (h Hours) span() (int, int, bool) {
	open, err := ParseClock(h.Open)
	if err != nil {
		return 0, 0, false
	}
	cl, err := ParseClock(h.Close)
	if err != nil {
		return 0, 0, false
	}
	if cl <= open {
		cl += 24 * 60
	}
	return open, cl, true
}

// Covers reports whether the window [from, to) lies inside the opening hours.
// An empty to means "open at from". Requests before the opening time are
// matched against the after-midnight part of the window.
func (h Hours) Covers(from, to string) bool {
	open, cl, ok := h.span()
	if !ok {
		return false
	}
	start, err := ParseClock(from)
	if err != nil {
		return false
	}
	if start < open {
		start += 24 * 60
	}
	if to == "" {
		return start >= open && start < cl
	}
	end, err := ParseClock(to)
	if err != nil {
		return false
	}
	for end <= start {
		end += 24 * 60
	}
	return start >= open && end <= cl
}

// ParseClock parses "HH:MM" (HH up to 47) into minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 47 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// OpenDuring reports whether the restaurant is open for the whole window on
// any of days (every day when days is empty). Restaurants without hours are not.
func (r *Restaurant) OpenDuring(days []Weekday, from, to string) bool {
	if len(r.attrs.OpeningHours) == 0 || from == "" {
		return false
	}
	if len(days) == 0 {
		days = AllWeekdays
	}
	for _, d := range days {
		if h, ok := r.attrs.OpeningHours[d]; ok && h.Covers(from, to) {
			return true
		}
	}
	return false
}
