package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// Subcommand returns the invoked subcommand and its options
func Subcommand(i *discordgo.InteractionCreate) (string, Options) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", Options{}
	}
	first := data.Options[0]
	if first.Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", NewOptions(data.Options)
	}
	return first.Name, NewOptions(first.Options)
}

// NewOptions indexes opts by name
func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	out := make(Options, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

// String returns a string option, empty when absent
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// Int returns an integer option and whether it was supplied
func (o Options) Int(name string) (int64, bool) {
	if opt, ok := o[name]; ok {
		return opt.IntValue(), true
	}
	return 0, false
}

// Bool returns a boolean option and whether it was supplied
func (o Options) Bool(name string) (bool, bool) {
	if opt, ok := o[name]; ok {
		return opt.BoolValue(), true
	}
	return false, false
}

// ID returns a user, role or channel option as a snowflake
func (o Options) ID(name string) (int64, bool) {
	opt, ok := o[name]
	if !ok {
		return 0, false
	}
	raw, ok := opt.Value.(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// InteractionUserID returns the invoking user, in a guild or a DM
func InteractionUserID(i *discordgo.InteractionCreate) int64 {
	var user *discordgo.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	} else {
		user = i.User
	}
	if user == nil {
		return 0
	}
	id, _ := strconv.ParseInt(user.ID, 10, 64)
	return id
}

// ChannelID returns the channel the interaction was invoked in
func ChannelID(i *discordgo.InteractionCreate) int64 {
	id, _ := strconv.ParseInt(i.ChannelID, 10, 64)
	return id
}
