package pokemeow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Listing is one offer on a PokéMeow market page
type Listing struct {
	ID        string
	Pokemon   string
	Key       string
	DexNumber int
	Price     int64
}

var (
	marketTitle = regexp.MustCompile(`(?i)market`)
	listingLine = regexp.MustCompile("(?i)`(\\d+)`\\s*(?:<a?:\\w+:\\d+>\\s*)?\\*\\*(.+?)\\*\\*(?:\\s*#(\\d+))?.*?([\\d,]+)\\s*(?:<a?:\\w*coin\\w*:\\d+>|PokeCoins)")
)

// ParseMarketListings reads every listing on a market page embed
func ParseMarketListings(embed *discordgo.MessageEmbed) []Listing {
	if embed == nil || !marketTitle.MatchString(embed.Title) {
		return nil
	}

	var lines []string
	lines = append(lines, strings.Split(embed.Description, "\n")...)
	for _, f := range embed.Fields {
		lines = append(lines, strings.Split(f.Value, "\n")...)
	}

	var listings []Listing
	for _, line := range lines {
		m := listingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price, err := strconv.ParseInt(strings.ReplaceAll(m[4], ",", ""), 10, 64)
		if err != nil {
			continue
		}
		l := Listing{ID: m[1], Pokemon: strings.TrimSpace(m[2]), Price: price}
		l.Key = NormalizePokemonKey(l.Pokemon)
		if m[3] != "" {
			l.DexNumber, _ = strconv.Atoi(m[3])
		}
		listings = append(listings, l)
	}
	return listings
}
