package format

import (
	"fmt"
	"time"
)

// HumanTime renders a timestamp as a short relative duration, such as
// "2 hours ago".
func HumanTime(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "Less than a minute ago"
	case d < 2*time.Minute:
		return "About a minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "About an hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "Yesterday"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	case d < 60*24*time.Hour:
		return "About a month ago"
	default:
		return t.Format("2006-01-02")
	}
}
