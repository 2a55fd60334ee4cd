package rei

import (
	"fmt"
	"strconv"
	"time"
)

// formatMS never returns 0, which the engine would read as no limit.
func formatMS(d time.Duration) string {
	ms := d / time.Millisecond
	if ms < 1 {
		ms = 1
	}
	return strconv.FormatUint(uint64(ms), 10)
}

func parseMS(s string) (time.Duration, error) {
	ms, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad ms: %v", s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
