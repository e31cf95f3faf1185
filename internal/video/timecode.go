package video

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockToSeconds parses a "MM:SS" or "HH:MM:SS" clock string into whole
// seconds. Minutes may exceed 59 in the two-part form ("90:00" is 5400).
func ClockToSeconds(clock string) (int, error) {
	parts := strings.Split(clock, ":")

	switch len(parts) {
	case 2:
		m, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		s, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		return m*60 + s, nil
	case 3:
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		s, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		return h*3600 + m*60 + s, nil
	default:
		return 0, fmt.Errorf("invalid time format %q", clock)
	}
}

// SecondsToClock formats whole seconds as "HH:MM:SS".
func SecondsToClock(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
