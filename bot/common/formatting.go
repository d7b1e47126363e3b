package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCoins formats a PokéCoin amount with thousand separators
func FormatCoins(amount int64) string {
	str := strconv.FormatInt(amount, 10)
	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}

	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatInterval renders a repeat interval such as "1d 2h" or "45m"
func FormatInterval(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	var parts []string
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// MentionUser returns the mention markup for a user ID
func MentionUser(userID int64) string {
	return fmt.Sprintf("<@%d>", userID)
}

// MentionRole returns the mention markup for a role ID
func MentionRole(roleID int64) string {
	return fmt.Sprintf("<@&%d>", roleID)
}

// MentionChannel returns the mention markup for a channel ID
func MentionChannel(channelID int64) string {
	return fmt.Sprintf("<#%d>", channelID)
}

// OnOff renders a toggle state
func OnOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
