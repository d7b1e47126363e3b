package auctions

import (
	"context"
	"time"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /auction: pings shortly before a PokéMeow auction ends
type Feature struct {
	auctions *service.AuctionService
	now      func() time.Time
}

// NewFeature creates a new auctions feature instance
func NewFeature(auctions *service.AuctionService) *Feature {
	return &Feature{auctions: auctions, now: time.Now}
}

// HandleCommand routes auction subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	name, opts := common.Subcommand(i)

	var reply string
	var err error
	switch name {
	case "remind":
		reply, err = f.remind(ctx, userID, common.ChannelID(i), opts)
	case "cancel":
		reply, err = f.cancel(ctx, userID, opts)
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
