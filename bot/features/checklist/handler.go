package checklist

import (
	"context"
	"fmt"
	"strings"

	"mew/bot/common"
	"mew/models"

	"github.com/bwmarrin/discordgo"
)

func entryKey(userID int64, opts common.Options) (models.ChecklistKey, error) {
	dex, _ := opts.Int("dex")
	if dex <= 0 {
		return models.ChecklistKey{}, common.NewUserError("Please give a dex number above zero.", "bad dex number")
	}
	return models.ChecklistKey{UserID: userID, DexNumber: int(dex)}, nil
}

func (f *Feature) add(ctx context.Context, userID int64, opts common.Options) (string, error) {
	key, err := entryKey(userID, opts)
	if err != nil {
		return "", err
	}

	var patch models.ChecklistPatch
	if name := strings.TrimSpace(opts.String("pokemon")); name != "" {
		patch.PokemonName = models.Set(name)
	}
	if channel, ok := opts.ID("channel"); ok {
		patch.ChannelID = models.Set(channel)
	}
	if role, ok := opts.ID("role"); ok {
		patch.RoleID = models.Set(role)
	}

	entry, err := f.checklist.Upsert(ctx, key, patch)
	if err != nil {
		return "", common.ServiceError(err, "That checklist entry is not valid.", "failed to upsert checklist entry", key.String())
	}
	return fmt.Sprintf("You will be pinged when %s spawns", describe(*entry)), nil
}

func (f *Feature) remove(ctx context.Context, userID int64, opts common.Options) (string, error) {
	key, err := entryKey(userID, opts)
	if err != nil {
		return "", err
	}
	removed, err := f.checklist.Delete(ctx, key)
	if err != nil {
		return "", common.ServiceError(err, "That checklist entry is not valid.", "failed to delete checklist entry", key.String())
	}
	if !removed {
		return "", common.NewUserError(fmt.Sprintf("#%d is not on your checklist.", key.DexNumber), "checklist entry not found")
	}
	return fmt.Sprintf("#%d removed from your checklist", key.DexNumber), nil
}

func (f *Feature) list(userID int64) *discordgo.MessageEmbed {
	entries := f.checklist.ForUser(userID)
	embed := &discordgo.MessageEmbed{
		Title: "Your missing pokemon",
		Color: common.ColorPrimary,
	}
	if len(entries) == 0 {
		embed.Description = "Your checklist is empty. Add to it with `/checklist add`."
		return embed
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := "• " + describe(e)
		if e.ChannelID != nil {
			line += " in " + common.MentionChannel(*e.ChannelID)
		}
		if e.RoleID != nil {
			line += " pinging " + common.MentionRole(*e.RoleID)
		}
		lines = append(lines, line)
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func describe(e models.ChecklistEntry) string {
	if e.PokemonName == "" {
		return fmt.Sprintf("**#%d**", e.DexNumber)
	}
	return fmt.Sprintf("**%s** (#%d)", e.PokemonName, e.DexNumber)
}
