package battletower

import (
	"context"
	"fmt"

	"mew/bot/common"
)

func (f *Feature) register(ctx context.Context, userID, channelID int64) (string, error) {
	moved := f.registrations.Registered(userID)
	if _, err := f.registrations.Register(ctx, userID, channelID); err != nil {
		return "", common.ServiceError(err, "You can only register from a server channel.", "failed to register for battle tower", userID)
	}
	if moved {
		return fmt.Sprintf("Battle tower pings now go to %s.", common.MentionChannel(channelID)), nil
	}
	return fmt.Sprintf("You will be pinged in %s when the battle tower resets.", common.MentionChannel(channelID)), nil
}

func (f *Feature) unregister(ctx context.Context, userID int64) (string, error) {
	found, err := f.registrations.Unregister(ctx, userID)
	if err != nil {
		return "", common.ServiceError(err, "", "failed to unregister from battle tower", userID)
	}
	if !found {
		return "", common.NewUserError("You are not registered for battle tower pings.", "battle tower registration not found")
	}
	return "You will no longer be pinged for the battle tower.", nil
}
