package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// Experience renders the elapsed time since a doctor started practicing
// as a listing-friendly string, counting whole years and months.
func Experience(practiceStart, now time.Time) string {
	if practiceStart.After(now) {
		return "Invalid practice start date"
	}

	months := (now.Year()-practiceStart.Year())*12 + int(now.Month()) - int(practiceStart.Month())
	if now.Day() < practiceStart.Day() {
		months--
	}
	if months <= 0 {
		return "Less than a month"
	}

	years := months / 12
	months %= 12

	var parts []string
	if years == 1 {
		parts = append(parts, "1 year")
	} else if years > 1 {
		parts = append(parts, fmt.Sprintf("%d years", years))
	}
	if months == 1 {
		parts = append(parts, "1 month")
	} else if months > 1 {
		parts = append(parts, fmt.Sprintf("%d months", months))
	}
	return strings.Join(parts, " ")
}
