package models

import (
	"fmt"
	"strings"
	"time"
)

// Faction is one of the PokéMeow trainer factions
type Faction string

const (
	FactionAqua     Faction = "aqua"
	FactionFlare    Faction = "flare"
	FactionGalactic Faction = "galactic"
	FactionMagma    Faction = "magma"
	FactionPlasma   Faction = "plasma"
	FactionRocket   Faction = "rocket"
	FactionSkull    Faction = "skull"
	FactionYell     Faction = "yell"
)

// Factions lists every faction in column order
var Factions = []Faction{
	FactionAqua, FactionFlare, FactionGalactic, FactionMagma,
	FactionPlasma, FactionRocket, FactionSkull, FactionYell,
}

// ParseFaction maps a display name such as "Team Rocket" to a faction
func ParseFaction(s string) (Faction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "team ")
	for _, f := range Factions {
		if name == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown faction %q", s)
}

// Title returns the faction as PokéMeow displays it
func (f Faction) Title() string {
	if f == "" {
		return ""
	}
	return "Team " + strings.ToUpper(string(f[:1])) + string(f[1:])
}

// FactionBalls is the singleton row holding each faction's ball of the day
type FactionBalls struct {
	Balls     map[Faction]*string
	UpdatedAt time.Time
}

// Ball returns the ball recorded for f today
func (b *FactionBalls) Ball(f Faction) (string, bool) {
	if b == nil || b.Balls[f] == nil {
		return "", false
	}
	return *b.Balls[f], true
}

// Clone returns a copy that shares no map or ball name with b
func (b FactionBalls) Clone() FactionBalls {
	out := FactionBalls{Balls: make(map[Faction]*string, len(Factions)), UpdatedAt: b.UpdatedAt}
	for f, v := range b.Balls {
		out.Balls[f] = clonePtr(v)
	}
	return out
}

// FactionBallPatch lists the faction columns a caller wants to change
type FactionBallPatch map[Faction]Field[string]

// Apply writes the supplied fields of p into b
func (b *FactionBalls) Apply(p FactionBallPatch) error {
	next := b.Clone()
	for f, field := range p {
		v := next.Balls[f]
		field.ApplyPtr(&v)
		next.Balls[f] = v
	}
	*b = next
	return nil
}
