package pokemeow

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Kind names what a PokéMeow message reports
type Kind string

const (
	KindUnknown     Kind = ""
	KindSpawn       Kind = "spawn"
	KindMarket      Kind = "market"
	KindCatchbot    Kind = "catchbot"
	KindQuest       Kind = "quest"
	KindFactionBall Kind = "faction_ball"
	KindSpookyHour  Kind = "spooky_hour"
	KindProfile     Kind = "profile"
)

// Message is everything Mew reads from one PokéMeow message
type Message struct {
	Kind        Kind
	Spawn       Spawn
	Listings    []Listing
	Notice      Notice
	FactionBall FactionBall
	SpookyEnds  time.Time
	Profile     ProfileFaction
}

// Classify runs the parsers in turn and returns the first match
func Classify(m *discordgo.Message, now time.Time) Message {
	for _, e := range m.Embeds {
		if s, ok := ParseSpawn(m.Content, e); ok {
			return Message{Kind: KindSpawn, Spawn: s}
		}
		if l := ParseMarketListings(e); len(l) > 0 {
			return Message{Kind: KindMarket, Listings: l}
		}
		if p, ok := ParseProfileFaction(e); ok {
			return Message{Kind: KindProfile, Profile: p}
		}
		if fb, ok := ParseFactionBall(e); ok {
			return Message{Kind: KindFactionBall, FactionBall: fb}
		}
	}

	text := m.Content
	for _, e := range m.Embeds {
		text += "\n" + e.Description
	}
	if n, ok := ParseCatchbotReturn(text, now); ok {
		return Message{Kind: KindCatchbot, Notice: n}
	}
	if n, ok := ParseQuestCooldown(text, now); ok {
		return Message{Kind: KindQuest, Notice: n}
	}
	if end, ok := ParseSpookyHour(text, now); ok {
		return Message{Kind: KindSpookyHour, SpookyEnds: end}
	}
	return Message{Kind: KindUnknown}
}
