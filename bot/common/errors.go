package common

import (
	"errors"
	"fmt"

	"mew/models"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging

	system bool
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad input, unknown IDs)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
		system:      true,
	}
}

var validationErrors = []error{
	models.ErrInvalidKey,
	models.ErrNullNotAllowed,
	service.ErrNegativePrice,
	service.ErrInvalidInterval,
	service.ErrInvalidSchedule,
	service.ErrInvalidReactType,
	service.ErrUnknownFaction,
	service.ErrInvalidWindow,
}

// ServiceError classifies an error returned by a service: rejected input
// becomes a user error carrying userMessage, anything else a system error.
// context is logged with the error.
func ServiceError(err error, userMessage, logMessage string, context any) *BotError {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			userErr := NewUserError(userMessage, logMessage)
			userErr.Err = err
			userErr.Context = context
			return userErr
		}
	}
	sysErr := NewSystemError(err, logMessage)
	sysErr.Context = context
	return sysErr
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	fields := log.Fields{
		"user_id": InteractionUserID(i),
		"command": i.ApplicationCommandData().Name,
	}

	var botErr *BotError
	if errors.As(err, &botErr) {
		fields["user_message"] = botErr.UserMessage
		fields["context"] = botErr.Context
		entry := log.WithFields(fields).WithError(err)
		if botErr.system {
			entry.Error(botErr.LogMessage)
		} else {
			entry.Info(botErr.LogMessage)
		}
		RespondWithError(s, i, botErr.UserMessage)
		return
	}

	// Unexpected error - log full details but show generic message to user
	log.WithFields(fields).WithError(err).Error("Unexpected error in bot command")
	RespondWithError(s, i, "Something went wrong. Please try again later.")
}
