package auctions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"mew/bot/common"
	"mew/models"
	"mew/pokemeow"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) endsOn(raw string) (time.Time, error) {
	now := f.now()
	if t, err := pokemeow.ParseDiscordTimestamp(raw); err == nil {
		if !t.After(now) {
			return time.Time{}, common.NewUserError("That auction has already ended.", "auction end in the past")
		}
		return t, nil
	}
	d, err := pokemeow.ParseDuration(raw)
	if err != nil || d <= 0 {
		return time.Time{}, common.NewUserError("I could not read when the auction ends. Try something like `3h 20m`.", "unparseable auction end")
	}
	return now.Add(d), nil
}

func (f *Feature) remind(ctx context.Context, userID, channelID int64, opts common.Options) (string, error) {
	auctionID, _ := opts.Int("auction_id")
	if auctionID <= 0 {
		return "", common.NewUserError("Auction IDs are positive numbers.", "bad auction id")
	}
	endsOn, err := f.endsOn(opts.String("ends_in"))
	if err != nil {
		return "", err
	}

	reminder := models.AuctionReminder{
		AuctionID: auctionID,
		UserID:    userID,
		Pokemon:   strings.TrimSpace(opts.String("pokemon")),
		EndsOn:    endsOn,
		ChannelID: channelID,
	}
	if _, err := f.auctions.Remind(ctx, reminder); err != nil {
		return "", common.ServiceError(err, "Auction reminders only work in a server channel.", "failed to store auction reminder", reminder.Key().String())
	}
	return fmt.Sprintf("I will ping you before auction **%d** ends %s.", auctionID, common.FormatDiscordTimestamp(endsOn, "R")), nil
}

func (f *Feature) cancel(ctx context.Context, userID int64, opts common.Options) (string, error) {
	auctionID, _ := opts.Int("auction_id")
	key := models.AuctionKey{AuctionID: auctionID, UserID: userID}
	found, err := f.auctions.Delete(ctx, key)
	if err != nil {
		return "", common.ServiceError(err, "Auction IDs are positive numbers.", "failed to cancel auction reminder", key.String())
	}
	if !found {
		return "", common.NewUserError(fmt.Sprintf("You have no reminder for auction **%d**.", auctionID), "auction reminder not found")
	}
	return fmt.Sprintf("Cancelled the reminder for auction **%d**.", auctionID), nil
}

func (f *Feature) list(userID int64) *discordgo.MessageEmbed {
	reminders := f.auctions.ForUser(userID)
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].EndsOn.Before(reminders[j].EndsOn)
	})

	embed := &discordgo.MessageEmbed{Title: "Auction reminders", Color: common.ColorInfo}
	if len(reminders) == 0 {
		embed.Description = "You have no auction reminders."
		return embed
	}
	for _, r := range reminders {
		if len(embed.Fields) == common.MaxEmbedFields {
			break
		}
		name := fmt.Sprintf("#%d", r.AuctionID)
		if r.Pokemon != "" {
			name += " " + r.Pokemon
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("ends %s in %s", common.FormatDiscordTimestamp(r.EndsOn, "R"), common.MentionChannel(r.ChannelID)),
		})
	}
	return embed
}
