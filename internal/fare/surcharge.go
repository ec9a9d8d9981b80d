package fare

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM" into minutes since midnight
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// MinutesSinceMidnight uses the wall clock of t in its own location
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// window returns the parsed bounds of a surcharge window. Windows that
// cannot be parsed or that cross midnight are reported as not ok.
func (w TimeSurcharge) window() (start, end int, ok bool) {
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(w.EndTime)
	if err != nil {
		return 0, 0, false
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// ResolveSurcharge returns the first window containing the pickup time,
// inclusive at both ends. Same-day windows only.
func ResolveSurcharge(pickup time.Time, windows []TimeSurcharge) (TimeSurcharge, bool) {
	if pickup.IsZero() {
		return TimeSurcharge{}, false
	}
	minutes := MinutesSinceMidnight(pickup)
	for _, w := range windows {
		start, end, ok := w.window()
		if !ok {
			continue
		}
		if minutes >= start && minutes <= end {
			return w, true
		}
	}
	return TimeSurcharge{}, false
}

// ValidateSurcharges rejects windows that the resolver would silently ignore
func ValidateSurcharges(windows []TimeSurcharge) error {
	for i, w := range windows {
		start, err := ParseClock(w.StartTime)
		if err != nil {
			return fmt.Errorf("time surcharge %d: start: %w", i+1, err)
		}
		end, err := ParseClock(w.EndTime)
		if err != nil {
			return fmt.Errorf("time surcharge %d: end: %w", i+1, err)
		}
		if start > end {
			return fmt.Errorf("time surcharge %d: window %s-%s crosses midnight, split it into two windows", i+1, w.StartTime, w.EndTime)
		}
		if w.Surcharge < 0 {
			return fmt.Errorf("time surcharge %d: surcharge must not be negative", i+1)
		}
	}
	return nil
}
