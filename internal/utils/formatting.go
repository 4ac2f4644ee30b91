package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Greeting picks the salutation for the hour of day (0-23).
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good Morning"
	case hour < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

func GreetingAt(t time.Time) string {
	return Greeting(t.Hour())
}

// FormatShowing renders the "Showing N to M of T" footer. An empty list reads
// "No contacts".
func FormatShowing(start, end, total int) string {
	if total == 0 {
		return "No contacts"
	}
	return fmt.Sprintf("Showing %d to %d of %d contacts", start, end, total)
}

// FormatPageIndicator renders "Page X of Y", or "Page 0 of 0" for an empty list.
func FormatPageIndicator(current, total int) string {
	if total == 0 {
		current = 0
	}
	return fmt.Sprintf("Page %d of %d", current, total)
}

// TruncateString shortens s to at most maxLen runes, ending in an ellipsis.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// PadString pads s with padChar up to width runes.
func PadString(s string, width int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(string(padChar), width-n)
}

// FitColumn truncates then pads s so table columns line up.
func FitColumn(s string, width int) string {
	return PadString(TruncateString(s, width), width, ' ')
}

// MaskPassword hides a password for display.
func MaskPassword(password string) string {
	return strings.Repeat("•", utf8.RuneCountInString(password))
}

// FormatTimeAgo formats a time as "X ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "min")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "week")
	default:
		return plural(int(diff.Hours()/(24*30)), "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
