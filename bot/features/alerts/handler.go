package alerts

import (
	"context"
	"fmt"
	"strings"

	"mew/bot/common"
	"mew/models"
	"mew/pokemeow"

	"github.com/bwmarrin/discordgo"
)

func alertKey(userID, channelID int64, opts common.Options) (models.AlertKey, error) {
	key := models.AlertKey{
		PokemonKey: pokemeow.NormalizePokemonKey(opts.String("pokemon")),
		ChannelID:  channelID,
		UserID:     userID,
	}
	if key.PokemonKey == "" {
		return key, common.NewUserError("Please name a pokemon.", "empty pokemon name")
	}
	return key, nil
}

// add creates the alert or changes the supplied fields of an existing one
func (f *Feature) add(ctx context.Context, userID, channelID int64, opts common.Options) (string, error) {
	key, err := alertKey(userID, channelID, opts)
	if err != nil {
		return "", err
	}

	var patch models.AlertPatch
	if price, ok := opts.Int("max_price"); ok {
		if price < 0 {
			return "", common.NewUserError("The price limit cannot be negative.", "negative max price")
		}
		patch.MaxPrice = models.Set(price)
	}
	if role, ok := opts.ID("role"); ok {
		patch.RoleID = models.Set(role)
	}
	if dex, ok := opts.Int("dex"); ok && dex > 0 {
		patch.DexNumber = models.Set(int(dex))
	} else if v, ok := f.market.Cached(key.PokemonKey); ok && v.DexNumber > 0 {
		patch.DexNumber = models.Set(v.DexNumber)
	}

	alert, err := f.alerts.Upsert(ctx, key, patch)
	if err != nil {
		return "", wrap(err, "failed to upsert alert", key)
	}
	return fmt.Sprintf("Alert for **%s** in %s set at **%s** PokéCoins", alert.PokemonKey,
		common.MentionChannel(alert.ChannelID), common.FormatCoins(alert.MaxPrice)), nil
}

func (f *Feature) remove(ctx context.Context, userID, channelID int64, opts common.Options) (string, error) {
	key, err := alertKey(userID, channelID, opts)
	if err != nil {
		return "", err
	}
	removed, err := f.alerts.Delete(ctx, key)
	if err != nil {
		return "", wrap(err, "failed to delete alert", key)
	}
	if !removed {
		return "", common.NewUserError(fmt.Sprintf("You have no alert for **%s** in this channel.", key.PokemonKey), "alert not found")
	}
	return fmt.Sprintf("Alert for **%s** removed", key.PokemonKey), nil
}

// toggle switches notifications for an existing alert without touching its limit
func (f *Feature) toggle(ctx context.Context, userID, channelID int64, opts common.Options) (string, error) {
	key, err := alertKey(userID, channelID, opts)
	if err != nil {
		return "", err
	}
	if _, ok := f.alerts.Cached(key); !ok {
		return "", common.NewUserError(fmt.Sprintf("You have no alert for **%s** in this channel.", key.PokemonKey), "alert not found")
	}
	enabled, ok := opts.Bool("enabled")
	if !ok {
		return "", common.NewUserError("Please choose on or off.", "missing enabled option")
	}
	alert, err := f.alerts.Upsert(ctx, key, models.AlertPatch{Notify: models.Set(enabled)})
	if err != nil {
		return "", wrap(err, "failed to toggle alert", key)
	}
	return fmt.Sprintf("Alert for **%s** is now %s", alert.PokemonKey, common.OnOff(alert.Notify)), nil
}

func (f *Feature) list(userID int64) *discordgo.MessageEmbed {
	alerts := f.alerts.ForUser(userID)
	embed := &discordgo.MessageEmbed{
		Title: "Your market alerts",
		Color: common.ColorPrimary,
	}
	if len(alerts) == 0 {
		embed.Description = "You have no alerts. Add one with `/alert add`."
		return embed
	}

	for n, a := range alerts {
		if n == common.MaxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("and %d more", len(alerts)-n)}
			break
		}
		var lines []string
		lines = append(lines, fmt.Sprintf("Limit: **%s**", common.FormatCoins(a.MaxPrice)))
		lines = append(lines, "Channel: "+common.MentionChannel(a.ChannelID))
		if a.RoleID != nil {
			lines = append(lines, "Role: "+common.MentionRole(*a.RoleID))
		}
		if v, ok := f.market.Cached(a.PokemonKey); ok && v.TrueLowest != nil {
			lines = append(lines, fmt.Sprintf("Lowest seen: %s", common.FormatCoins(*v.TrueLowest)))
		}
		name := a.PokemonKey
		if !a.Notify {
			name += " (off)"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  strings.Join(lines, "\n"),
			Inline: true,
		})
	}
	return embed
}

func wrap(err error, logMessage string, key models.AlertKey) error {
	return common.ServiceError(err, "That alert is not valid.", logMessage, key.String())
}
