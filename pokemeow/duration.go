// Package pokemeow reads game state out of PokéMeow messages. Every parser
// is a pure function over message text or embeds.
package pokemeow

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	durationPart  = regexp.MustCompile(`(?i)(\d+)\s*(days?|d|hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)\b`)
	discordStamp  = regexp.MustCompile(`<t:(-?\d+)(?::[tTdDfFR])?>`)
	userMention   = regexp.MustCompile(`<@!?(\d+)>`)
	customEmoji   = regexp.MustCompile(`<a?:\w+:\d+>`)
	ErrNoDuration = errors.New("no duration found")
)

// ParseDuration reads durations such as "2h 15m 3s" or "1 hour and 5 minutes"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPart.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w in %q", ErrNoDuration, s)
	}

	var total time.Duration
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("failed to parse duration %q: %w", m[0], err)
		}
		total += time.Duration(n) * unitOf(m[2])
	}
	return total, nil
}

func unitOf(u string) time.Duration {
	switch strings.ToLower(u)[0] {
	case 'd':
		return 24 * time.Hour
	case 'h':
		return time.Hour
	case 'm':
		return time.Minute
	}
	return time.Second
}

// ParseDiscordTimestamp reads the first <t:unix:style> marker in s
func ParseDiscordTimestamp(s string) (time.Time, error) {
	m := discordStamp.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("no discord timestamp in %q", s)
	}
	sec, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", m[0], err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// resolveWhen turns "in 2h" text or a Discord timestamp into an absolute time
func resolveWhen(s string, now time.Time) (time.Time, bool) {
	if t, err := ParseDiscordTimestamp(s); err == nil {
		return t, true
	}
	if d, err := ParseDuration(s); err == nil && d > 0 {
		return now.Add(d), true
	}
	return time.Time{}, false
}

// firstMention returns the first user mentioned in s
func firstMention(s string) (int64, bool) {
	m := userMention.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
