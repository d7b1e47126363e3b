package bot

import (
	"fmt"
	"strconv"

	"mew/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Messenger is the part of the Discord REST API notifications go through.
// *discordgo.Session satisfies it.
type Messenger interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// Notifier delivers bot-initiated messages and counts the outcome per kind
type Notifier struct {
	messenger Messenger
}

// NewNotifier creates a notifier over a Discord session
func NewNotifier(messenger Messenger) *Notifier {
	return &Notifier{messenger: messenger}
}

// Send posts content to a channel. Only users and roles named in the
// content are pinged.
func (n *Notifier) Send(kind string, channelID int64, content string) error {
	_, err := n.messenger.ChannelMessageSendComplex(strconv.FormatInt(channelID, 10), &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{
				discordgo.AllowedMentionTypeUsers,
				discordgo.AllowedMentionTypeRoles,
			},
		},
	})
	return n.record(kind, err, log.Fields{"channel_id": channelID})
}

// DM sends content to a user's direct messages
func (n *Notifier) DM(kind string, userID int64, content string) error {
	channel, err := n.messenger.UserChannelCreate(strconv.FormatInt(userID, 10))
	if err != nil {
		return n.record(kind, fmt.Errorf("failed to open DM: %w", err), log.Fields{"user_id": userID})
	}
	_, err = n.messenger.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{Content: content})
	return n.record(kind, err, log.Fields{"user_id": userID})
}

// Deliver posts to channelID when set and falls back to a DM otherwise
func (n *Notifier) Deliver(kind string, userID int64, channelID *int64, content string) error {
	if channelID != nil && *channelID != 0 {
		return n.Send(kind, *channelID, content)
	}
	return n.DM(kind, userID, content)
}

// React adds an emoji reaction to a message
func (n *Notifier) React(kind, channelID, messageID, emoji string) error {
	err := n.messenger.MessageReactionAdd(channelID, messageID, emoji)
	return n.record(kind, err, log.Fields{"channel_id": channelID, "message_id": messageID})
}

func (n *Notifier) record(kind string, err error, fields log.Fields) error {
	if err != nil {
		observability.NotificationErrorsTotal.WithLabelValues(kind).Inc()
		log.WithFields(fields).WithField("kind", kind).WithError(err).Warn("Failed to deliver notification")
		return err
	}
	observability.NotificationsSentTotal.WithLabelValues(kind).Inc()
	return nil
}
