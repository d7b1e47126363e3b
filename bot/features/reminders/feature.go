package reminders

import (
	"context"
	"time"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /remind: personal, optionally repeating reminders
type Feature struct {
	reminders *service.ReminderService
	now       func() time.Time
}

// NewFeature creates a new reminders feature instance
func NewFeature(reminders *service.ReminderService) *Feature {
	return &Feature{reminders: reminders, now: time.Now}
}

// HandleCommand routes reminder subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	name, opts := common.Subcommand(i)

	var reply string
	var err error
	switch name {
	case "add":
		reply, err = f.add(ctx, userID, common.ChannelID(i), opts)
	case "delete":
		reply, err = f.delete(ctx, userID, opts)
	case "clear":
		reply, err = f.clear(ctx, userID)
	case "list":
		if err := common.RespondWithEmbed(s, i, f.list(userID), true); err != nil {
			log.Errorf("Failed to respond to interaction: %v", err)
		}
		return
	default:
		return
	}
	if err != nil {
		common.HandleError(s, i, err)
		return
	}
	if err := common.RespondWithSuccess(s, i, reply, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
