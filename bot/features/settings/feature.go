package settings

import (
	"context"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /timers and /utility, the per-user notification toggles
type Feature struct {
	timers  *service.TimerService
	utility *service.UtilityService
}

// NewFeature creates a new settings feature instance
func NewFeature(timers *service.TimerService, utility *service.UtilityService) *Feature {
	return &Feature{timers: timers, utility: utility}
}

// HandleTimers changes the supplied timer toggles and shows the result
func (f *Feature) HandleTimers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.respond(s, i, f.updateTimers)
}

// HandleUtility changes the supplied utility toggles and shows the result
func (f *Feature) HandleUtility(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.respond(s, i, f.updateUtility)
}

func (f *Feature) respond(s *discordgo.Session, i *discordgo.InteractionCreate, update func(context.Context, int64, common.Options) (*discordgo.MessageEmbed, error)) {
	embed, err := update(context.Background(), common.InteractionUserID(i), common.NewOptions(i.ApplicationCommandData().Options))
	if err != nil {
		common.HandleError(s, i, err)
		return
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
