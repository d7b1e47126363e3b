package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mew/bot/common"
	"mew/models"
	"mew/pokemeow"

	"github.com/bwmarrin/discordgo"
)

const (
	minRepeat     = time.Minute
	maxMessageLen = 500
)

// when reads "in 2h" style durations or a pasted Discord timestamp
func (f *Feature) when(raw string) (time.Time, error) {
	now := f.now()
	if t, err := pokemeow.ParseDiscordTimestamp(raw); err == nil {
		if !t.After(now) {
			return time.Time{}, common.NewUserError("That time has already passed.", "reminder time in the past")
		}
		return t, nil
	}
	d, err := pokemeow.ParseDuration(raw)
	if err != nil || d <= 0 {
		return time.Time{}, common.NewUserError("I could not read that time. Try something like `2h 30m`.", "unparseable reminder time")
	}
	return now.Add(d), nil
}

func (f *Feature) add(ctx context.Context, userID, channelID int64, opts common.Options) (string, error) {
	message := strings.TrimSpace(opts.String("message"))
	if message == "" || len(message) > maxMessageLen {
		return "", common.NewUserError(fmt.Sprintf("The message must be between 1 and %d characters.", maxMessageLen), "bad reminder message")
	}
	remindOn, err := f.when(opts.String("when"))
	if err != nil {
		return "", err
	}

	n := models.NewReminder{UserID: userID, Message: message, RemindOn: remindOn}
	if raw := opts.String("repeat"); raw != "" {
		d, err := pokemeow.ParseDuration(raw)
		if err != nil || d < minRepeat {
			return "", common.NewUserError("Repeats must be at least one minute apart.", "bad repeat interval")
		}
		seconds := int64(d / time.Second)
		n.RepeatInterval = &seconds
	}
	if dm, _ := opts.Bool("dm"); !dm {
		n.ChannelID = &channelID
	}

	r, err := f.reminders.Add(ctx, n)
	if err != nil {
		return "", common.ServiceError(err, "That reminder is not valid.", "failed to add reminder", userID)
	}
	return fmt.Sprintf("Reminder **#%d** set for %s", r.UserReminderID, common.FormatDiscordTimestamp(r.RemindOn, "R")), nil
}

func (f *Feature) delete(ctx context.Context, userID int64, opts common.Options) (string, error) {
	id, _ := opts.Int("id")
	key := models.ReminderKey{UserID: userID, UserReminderID: int(id)}
	removed, err := f.reminders.Delete(ctx, key)
	if err != nil {
		return "", common.ServiceError(err, "That reminder ID is not valid.", "failed to delete reminder", key.String())
	}
	if !removed {
		return "", common.NewUserError(fmt.Sprintf("You have no reminder #%d.", id), "reminder not found")
	}
	return fmt.Sprintf("Reminder **#%d** deleted", id), nil
}

func (f *Feature) clear(ctx context.Context, userID int64) (string, error) {
	n, err := f.reminders.DeleteAllForUser(ctx, userID)
	if err != nil {
		return "", common.ServiceError(err, "Could not clear your reminders.", "failed to clear reminders", userID)
	}
	return fmt.Sprintf("Deleted %d reminder(s)", n), nil
}

func (f *Feature) list(userID int64) *discordgo.MessageEmbed {
	reminders := f.reminders.ForUser(userID)
	embed := &discordgo.MessageEmbed{
		Title: "Your reminders",
		Color: common.ColorInfo,
	}
	if len(reminders) == 0 {
		embed.Description = "You have no reminders. Add one with `/remind add`."
		return embed
	}

	for n, r := range reminders {
		if n == common.MaxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("and %d more", len(reminders)-n)}
			break
		}
		value := common.FormatDiscordTimestamp(r.RemindOn, "f")
		if r.RepeatInterval != nil {
			value += ", every " + common.FormatInterval(time.Duration(*r.RepeatInterval)*time.Second)
		}
		if r.ChannelID == nil {
			value += ", by DM"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d %s", r.UserReminderID, r.Message),
			Value: value,
		})
	}
	return embed
}
