package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCoins(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		expected string
	}{
		{"zero", 0, "0"},
		{"hundreds", 999, "999"},
		{"thousand", 1000, "1,000"},
		{"millions", 1234567, "1,234,567"},
		{"negative", -1500, "-1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCoins(tt.amount))
		})
	}
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 45 * time.Minute, "45m"},
		{"hours and minutes", 2*time.Hour + 5*time.Minute, "2h 5m"},
		{"day", 24 * time.Hour, "1d"},
		{"week", 7 * 24 * time.Hour, "7d"},
		{"mixed", 26*time.Hour + time.Minute, "1d 2h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatInterval(tt.interval))
		})
	}
}

func TestMentions(t *testing.T) {
	assert.Equal(t, "<@42>", MentionUser(42))
	assert.Equal(t, "<@&7>", MentionRole(7))
	assert.Equal(t, "<#9>", MentionChannel(9))
	assert.Equal(t, "<t:0:R>", FormatDiscordTimestamp(time.Unix(0, 0), "R"))
}
