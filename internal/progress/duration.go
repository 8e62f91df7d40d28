package progress

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders short durations as milliseconds and longer ones as
// "1 hours 2 minutes 3.045 seconds", leaving out zero parts.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	millis := (d - seconds*time.Second) / time.Millisecond

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if seconds > 0 || millis > 0 {
		s := fmt.Sprintf("%d", seconds)
		if millis > 0 {
			s += fmt.Sprintf(".%03d", millis)
		}
		parts = append(parts, s+" seconds")
	}
	return strings.Join(parts, " ")
}

// Since formats the time elapsed since start.
func Since(start time.Time) string {
	return FormatDuration(time.Since(start))
}
