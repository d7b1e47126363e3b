package settings

import (
	"context"
	"fmt"
	"time"

	"mew/bot/common"
	"mew/models"

	"github.com/bwmarrin/discordgo"
)

func boolField(opts common.Options, name string) models.Field[bool] {
	if v, ok := opts.Bool(name); ok {
		return models.Set(v)
	}
	return models.Field[bool]{}
}

// updateTimers writes only the toggles the user supplied. With no options it
// shows the current settings.
func (f *Feature) updateTimers(ctx context.Context, userID int64, opts common.Options) (*discordgo.MessageEmbed, error) {
	settings := f.timers.Settings(userID)
	if len(opts) > 0 {
		patch := models.TimerPatch{
			Pokemon: boolField(opts, "pokemon"),
			Fish:    boolField(opts, "fish"),
			Battle:  boolField(opts, "battle"),
			Explore: boolField(opts, "explore"),
		}
		if react := opts.String("react_type"); react != "" {
			patch.ReactType = models.Set(models.ReactType(react))
		}
		updated, err := f.timers.Update(ctx, userID, patch)
		if err != nil {
			return nil, common.ServiceError(err, "Those timer settings are not valid.", "failed to update timer settings", userID)
		}
		settings = *updated
	}

	return &discordgo.MessageEmbed{
		Title: "Cooldown timers",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: ";pokemon", Value: common.OnOff(settings.Pokemon), Inline: true},
			{Name: ";fish", Value: common.OnOff(settings.Fish), Inline: true},
			{Name: ";battle", Value: common.OnOff(settings.Battle), Inline: true},
			{Name: ";explore", Value: common.OnOff(settings.Explore), Inline: true},
			{Name: "Notify by", Value: string(settings.ReactType), Inline: true},
		},
	}, nil
}

func (f *Feature) updateUtility(ctx context.Context, userID int64, opts common.Options) (*discordgo.MessageEmbed, error) {
	settings := f.utility.Settings(userID)
	if len(opts) > 0 {
		patch := models.UtilityPatch{
			CatchbotRemind: boolField(opts, "catchbot"),
			QuestRemind:    boolField(opts, "quest"),
			SpookyPing:     boolField(opts, "spooky_hour"),
		}
		if tz, ok := opts["timezone"]; ok {
			switch name := tz.StringValue(); name {
			case "", "none":
				patch.Timezone = models.Null[string]()
			default:
				if _, err := time.LoadLocation(name); err != nil {
					return nil, common.NewUserError(fmt.Sprintf("Unknown timezone %q. Use a name like `Europe/Berlin`.", name), "bad timezone")
				}
				patch.Timezone = models.Set(name)
			}
		}
		updated, err := f.utility.Update(ctx, userID, patch)
		if err != nil {
			return nil, common.ServiceError(err, "Those settings are not valid.", "failed to update utility settings", userID)
		}
		settings = *updated
	}

	timezone := "not set"
	if settings.Timezone != nil {
		timezone = *settings.Timezone
	}
	return &discordgo.MessageEmbed{
		Title: "Game reminders",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Catchbot", Value: common.OnOff(settings.CatchbotRemind), Inline: true},
			{Name: "Quest", Value: common.OnOff(settings.QuestRemind), Inline: true},
			{Name: "Spooky hour ping", Value: common.OnOff(settings.SpookyPing), Inline: true},
			{Name: "Timezone", Value: timezone, Inline: true},
		},
	}, nil
}
