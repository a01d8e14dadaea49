package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseTimeInput accepts plain seconds ("150") or minutes:seconds ("2:30").
func parseTimeInput(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		minutes, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in %q", s)
		}
		seconds, err := strconv.Atoi(s[i+1:])
		if err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("invalid seconds in %q", s)
		}
		if minutes < 0 {
			return 0, fmt.Errorf("time must not be negative")
		}
		return time.Duration(minutes*60+seconds) * time.Second, nil
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("time must not be negative")
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
