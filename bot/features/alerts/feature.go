package alerts

import (
	"context"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /alert: market price alerts per pokemon and channel
type Feature struct {
	alerts *service.AlertService
	market *service.MarketService
}

// NewFeature creates a new alerts feature instance
func NewFeature(alerts *service.AlertService, market *service.MarketService) *Feature {
	return &Feature{alerts: alerts, market: market}
}

// HandleCommand routes alert subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	channelID := common.ChannelID(i)
	name, opts := common.Subcommand(i)

	if name == "list" {
		if err := common.RespondWithEmbed(s, i, f.list(userID), true); err != nil {
			log.Errorf("Failed to respond to interaction: %v", err)
		}
		return
	}

	var reply string
	var err error
	switch name {
	case "add":
		reply, err = f.add(ctx, userID, channelID, opts)
	case "remove":
		reply, err = f.remove(ctx, userID, channelID, opts)
	case "toggle":
		reply, err = f.toggle(ctx, userID, channelID, opts)
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
