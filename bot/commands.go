package bot

import (
	"fmt"

	"mew/models"

	"github.com/bwmarrin/discordgo"
)

func pokemonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "pokemon",
		Description: "Pokemon name",
		Required:    required,
	}
}

func toggleOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
	}
}

func factionChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{{Name: "All factions", Value: "all"}}
	for _, f := range models.Factions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: f.Title(), Value: string(f)})
	}
	return choices
}

var minPositive = 1.0

// commands lists every slash command Mew registers
func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "alert",
			Description: "Get pinged when a pokemon is listed on the market below your price",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add an alert in this channel, or change an existing one",
					Options: []*discordgo.ApplicationCommandOption{
						pokemonOption(true),
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max_price",
							Description: "Highest price in PokéCoins that should ping you",
							MinValue:    new(float64),
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to ping instead of you",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "dex",
							Description: "Dex number, if the market has not shown this pokemon yet",
							MinValue:    &minPositive,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove an alert from this channel",
					Options:     []*discordgo.ApplicationCommandOption{pokemonOption(true)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "toggle",
					Description: "Pause or resume an alert in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						pokemonOption(true),
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Whether the alert should ping",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your alerts",
				},
			},
		},
		{
			Name:        "checklist",
			Description: "Get pinged when a pokemon you are missing spawns",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a missing pokemon, or change an existing entry",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "dex",
							Description: "Dex number",
							Required:    true,
							MinValue:    &minPositive,
						},
						pokemonOption(false),
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Only ping for spawns in this channel",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to ping instead of you",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a pokemon from your checklist",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "dex",
							Description: "Dex number",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your checklist",
				},
			},
		},
		{
			Name:        "remind",
			Description: "Personal reminders",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a reminder",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "when",
							Description: "How long from now, e.g. 2h 30m, or a Discord timestamp",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "What to remind you of",
							Required:    true,
							MaxLength:   500,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "repeat",
							Description: "Repeat every, e.g. 1d",
						},
						toggleOption("dm", "Send the reminder by DM instead of in this channel"),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a reminder",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Reminder ID from /remind list",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Delete all your reminders",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your reminders",
				},
			},
		},
		{
			Name:        "timers",
			Description: "Ping when a game command is off cooldown. Shows your settings when no option is given",
			Options: []*discordgo.ApplicationCommandOption{
				toggleOption("pokemon", ";pokemon cooldown"),
				toggleOption("fish", ";fish cooldown"),
				toggleOption("battle", ";battle cooldown"),
				toggleOption("explore", ";explore cooldown"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "react_type",
					Description: "How to notify you",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Message", Value: string(models.ReactTypeMessage)},
						{Name: "Reaction", Value: string(models.ReactTypeReaction)},
					},
				},
			},
		},
		{
			Name:        "utility",
			Description: "Game reminders. Shows your settings when no option is given",
			Options: []*discordgo.ApplicationCommandOption{
				toggleOption("catchbot", "Remind you when your catchbot returns"),
				toggleOption("quest", "Remind you when a new quest is available"),
				toggleOption("spooky_hour", "Ping you when spooky hour starts"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "timezone",
					Description: "IANA timezone such as Europe/Berlin, or none",
				},
			},
		},
		{
			Name:        "battletower",
			Description: "Weekly battle tower reset ping",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "register",
					Description: "Get pinged in this channel when the battle tower resets",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unregister",
					Description: "Stop the battle tower ping",
				},
			},
		},
		{
			Name:        "auction",
			Description: "Auction end reminders",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remind",
					Description: "Get pinged in this channel before an auction ends",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "auction_id",
							Description: "Auction ID",
							Required:    true,
							MinValue:    &minPositive,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ends_in",
							Description: "Time left, e.g. 3h 20m, or a Discord timestamp",
							Required:    true,
						},
						pokemonOption(false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel an auction reminder",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "auction_id",
							Description: "Auction ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your auction reminders",
				},
			},
		},
		{
			Name:        "factionball",
			Description: "Show the faction ball of the day",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "faction",
					Description: "Faction to show, defaults to yours",
					Choices:     factionChoices(),
				},
			},
		},
		{
			Name:        "forgetme",
			Description: "Delete everything Mew stores about you",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "confirm",
					Description: "Set to true to confirm",
					Required:    true,
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord. Commands go to
// the configured guild, or globally when none is set.
func (b *Bot) registerCommands() error {
	for _, cmd := range commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
