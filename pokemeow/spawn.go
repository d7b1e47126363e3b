package pokemeow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Spawn is a wild pokemon PokéMeow rolled for a trainer
type Spawn struct {
	TrainerID int64
	Pokemon   string
	Key       string
	DexNumber int
	Rarity    string
	Shiny     bool
}

var (
	spawnLine   = regexp.MustCompile(`(?i)found an? wild\s+(?:<a?:\w+:\d+>\s*)?\*\*(.+?)\*\*`)
	dexNumber   = regexp.MustCompile(`#\s*(\d{1,4})\b`)
	rarityFront = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z ]*?)\s*(?:\(|\||$)`)
)

// ParseSpawn reads a spawn embed. content is the plain text the embed was
// posted with, which carries the trainer mention on some message layouts.
func ParseSpawn(content string, embed *discordgo.MessageEmbed) (Spawn, bool) {
	if embed == nil {
		return Spawn{}, false
	}
	m := spawnLine.FindStringSubmatch(embed.Description)
	if m == nil {
		return Spawn{}, false
	}

	s := Spawn{Pokemon: strings.TrimSpace(customEmoji.ReplaceAllString(m[1], ""))}
	s.Shiny = strings.HasPrefix(strings.ToLower(s.Pokemon), "shiny ")
	s.Key = NormalizePokemonKey(s.Pokemon)

	if id, ok := firstMention(embed.Description); ok {
		s.TrainerID = id
	} else if id, ok := firstMention(content); ok {
		s.TrainerID = id
	}

	if embed.Footer != nil {
		footer := embed.Footer.Text
		if d := dexNumber.FindStringSubmatch(footer); d != nil {
			s.DexNumber, _ = strconv.Atoi(d[1])
		}
		if r := rarityFront.FindStringSubmatch(footer); r != nil {
			s.Rarity = r[1]
		}
	}
	return s, true
}
