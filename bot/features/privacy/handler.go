package privacy

import (
	"context"
	"fmt"

	"mew/bot/common"
)

func (f *Feature) forget(ctx context.Context, userID int64, confirmed bool) (string, error) {
	if !confirmed {
		return "", common.NewUserError("This deletes all your alerts, reminders and settings. Run `/forgetme confirm:True` to go ahead.", "purge not confirmed")
	}
	removed, err := f.purge.ForgetUser(ctx, userID)
	if err != nil {
		return "", common.NewSystemError(err, "failed to purge user data")
	}

	var total int64
	for _, n := range removed {
		total += n
	}
	return fmt.Sprintf("Deleted %d stored record(s). Mew has forgotten you.", total), nil
}
