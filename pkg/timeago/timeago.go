// Package timeago renders human readable relative times using the same
// thresholds the feed has always shown ("a few seconds ago", "3 hours ago").
package timeago

import (
	"fmt"
	"math"
	"time"
)

// Rounded-unit thresholds below which the next larger unit is not used yet.
const (
	secondsThreshold = 45
	minutesThreshold = 45
	hoursThreshold   = 22
	daysThreshold    = 26
	monthsThreshold  = 11
)

// FromNow describes t relative to the current time.
func FromNow(t time.Time) string {
	return Between(t, time.Now())
}

// Between describes t relative to now.
func Between(t, now time.Time) string {
	diff := now.Sub(t)
	future := diff < 0
	if future {
		diff = -diff
	}

	phrase := humanize(diff)
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

func humanize(d time.Duration) string {
	rawDays := d.Hours() / 24
	rawMonths := rawDays * 4800 / 146097

	seconds := math.Round(d.Seconds())
	minutes := math.Round(d.Minutes())
	hours := math.Round(d.Hours())
	days := math.Round(rawDays)
	months := math.Round(rawMonths)
	years := math.Round(rawMonths / 12)

	switch {
	case seconds < secondsThreshold:
		return "a few seconds"
	case minutes <= 1:
		return "a minute"
	case minutes < minutesThreshold:
		return fmt.Sprintf("%d minutes", int(minutes))
	case hours <= 1:
		return "an hour"
	case hours < hoursThreshold:
		return fmt.Sprintf("%d hours", int(hours))
	case days <= 1:
		return "a day"
	case days < daysThreshold:
		return fmt.Sprintf("%d days", int(days))
	case months <= 1:
		return "a month"
	case months < monthsThreshold:
		return fmt.Sprintf("%d months", int(months))
	case years <= 1:
		return "a year"
	default:
		return fmt.Sprintf("%d years", int(years))
	}
}
