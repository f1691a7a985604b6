package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatBalance formats an amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)
	if balance < 0 {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if balance < 0 {
		return "-" + str
	}
	return str
}

// FormatCurrency formats an amount with the guild's currency symbol
func FormatCurrency(amount int64, symbol string) string {
	return fmt.Sprintf("%s %s", FormatBalance(amount), symbol)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays
// in the reader's local timezone. Format types: "t" = short time, "d" = short
// date, "f" = short date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatDuration renders a duration in the compact form moderators use
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "indefinite"
	}
	if d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	}
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return d.String()
}
