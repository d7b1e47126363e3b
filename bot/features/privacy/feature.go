package privacy

import (
	"context"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /forgetme, which deletes everything Mew stores about the caller
type Feature struct {
	purge *service.PurgeService
}

// NewFeature creates a new privacy feature instance
func NewFeature(purge *service.PurgeService) *Feature {
	return &Feature{purge: purge}
}

// HandleCommand purges the caller once they confirm
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.NewOptions(i.ApplicationCommandData().Options)
	confirmed, _ := opts.Bool("confirm")

	reply, err := f.forget(context.Background(), common.InteractionUserID(i), confirmed)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}
	if err := common.RespondWithSuccess(s, i, reply, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
