package checklist

import (
	"context"

	"mew/bot/common"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /checklist: the pokemon a user is still missing
type Feature struct {
	checklist *service.ChecklistService
}

// NewFeature creates a new checklist feature instance
func NewFeature(checklist *service.ChecklistService) *Feature {
	return &Feature{checklist: checklist}
}

// HandleCommand routes checklist subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	name, opts := common.Subcommand(i)

	var reply string
	var err error
	switch name {
	case "add":
		reply, err = f.add(ctx, userID, opts)
	case "remove":
		reply, err = f.remove(ctx, userID, opts)
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
