package pokemeow

import (
	"regexp"
	"strings"

	"mew/models"

	"github.com/bwmarrin/discordgo"
)

var (
	teamName    = regexp.MustCompile(`(?i)team\s+(\w+)`)
	ballName    = regexp.MustCompile(`(?i)\*\*([\w ]*?ball)\*\*`)
	profileName = regexp.MustCompile(`^(.+?)'s? (?:profile|trainer card)`)
)

// FactionBall is the ball a faction's grunts use today
type FactionBall struct {
	Faction models.Faction
	Ball    string
}

// ParseFactionBall reads the faction hideout embed
func ParseFactionBall(embed *discordgo.MessageEmbed) (FactionBall, bool) {
	if embed == nil {
		return FactionBall{}, false
	}
	text := embed.Title + "\n" + embed.Description
	if embed.Author != nil {
		text = embed.Author.Name + "\n" + text
	}

	team := teamName.FindStringSubmatch(text)
	ball := ballName.FindStringSubmatch(customEmoji.ReplaceAllString(embed.Description, ""))
	if team == nil || ball == nil {
		return FactionBall{}, false
	}
	f, err := models.ParseFaction(team[1])
	if err != nil {
		return FactionBall{}, false
	}
	return FactionBall{Faction: f, Ball: strings.TrimSpace(ball[1])}, true
}

// ProfileFaction is the faction shown on a trainer profile
type ProfileFaction struct {
	Trainer string
	Faction models.Faction
}

// ParseProfileFaction reads the faction field of a profile embed
func ParseProfileFaction(embed *discordgo.MessageEmbed) (ProfileFaction, bool) {
	if embed == nil || embed.Author == nil {
		return ProfileFaction{}, false
	}
	name := profileName.FindStringSubmatch(embed.Author.Name)
	if name == nil {
		return ProfileFaction{}, false
	}
	for _, field := range embed.Fields {
		if !strings.Contains(strings.ToLower(field.Name), "faction") {
			continue
		}
		f, err := models.ParseFaction(customEmoji.ReplaceAllString(field.Value, ""))
		if err != nil {
			return ProfileFaction{}, false
		}
		return ProfileFaction{Trainer: strings.TrimSpace(name[1]), Faction: f}, true
	}
	return ProfileFaction{}, false
}
