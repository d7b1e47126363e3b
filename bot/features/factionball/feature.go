package factionball

import (
	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /factionball: today's ball for each faction
type Feature struct {
	balls *service.FactionBallService
	users *service.UserInfoService
}

// NewFeature creates a new faction ball feature instance
func NewFeature(balls *service.FactionBallService, users *service.UserInfoService) *Feature {
	return &Feature{balls: balls, users: users}
}

// HandleCommand shows the requested faction, the caller's own, or every faction
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	embed, err := f.show(common.InteractionUserID(i), opts.String("faction"))
	if err != nil {
		common.HandleError(s, i, err)
		return
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
