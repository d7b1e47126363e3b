package factionball

import (
	"fmt"

	"mew/bot/common"
	"mew/models"

	"github.com/bwmarrin/discordgo"
)

const unknownBall = "not seen yet"

func (f *Feature) show(userID int64, requested string) (*discordgo.MessageEmbed, error) {
	if requested == "all" {
		return f.all(), nil
	}

	var faction models.Faction
	if requested != "" {
		parsed, err := models.ParseFaction(requested)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Unknown faction %q.", requested), "bad faction option")
		}
		faction = parsed
	} else if known, ok := f.users.Faction(userID); ok {
		faction = known
	} else {
		return f.all(), nil
	}

	ball, ok := f.balls.Ball(faction)
	if !ok {
		ball = unknownBall
	}
	return &discordgo.MessageEmbed{
		Title:       faction.Title() + " ball of the day",
		Description: ball,
		Color:       common.ColorPrimary,
	}, nil
}

func (f *Feature) all() *discordgo.MessageEmbed {
	balls := f.balls.All()
	embed := &discordgo.MessageEmbed{Title: "Faction balls of the day", Color: common.ColorPrimary}
	for _, faction := range models.Factions {
		ball, ok := balls.Ball(faction)
		if !ok {
			ball = unknownBall
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   faction.Title(),
			Value:  ball,
			Inline: true,
		})
	}
	return embed
}
