package battletower

import (
	"context"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /battletower, the opt-in for the weekly reset ping
type Feature struct {
	registrations *service.BattleTowerService
}

// NewFeature creates a new battle tower feature instance
func NewFeature(registrations *service.BattleTowerService) *Feature {
	return &Feature{registrations: registrations}
}

// HandleCommand routes battle tower subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	name, _ := common.Subcommand(i)

	var reply string
	var err error
	switch name {
	case "register":
		reply, err = f.register(ctx, userID, common.ChannelID(i))
	case "unregister":
		reply, err = f.unregister(ctx, userID)
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
