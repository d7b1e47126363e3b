package testutil

import (
	"time"

	"mew/models"
)

// AlertKey returns the natural key of a test alert
func AlertKey(pokemon string, channelID, userID int64) models.AlertKey {
	return models.AlertKey{PokemonKey: pokemon, ChannelID: channelID, UserID: userID}
}

// AlertPatch returns a patch supplying the price and dex number of a test alert
func AlertPatch(dex int, maxPrice int64) models.AlertPatch {
	return models.AlertPatch{
		DexNumber: models.Set(dex),
		MaxPrice:  models.Set(maxPrice),
	}
}

// CreateTestReminder returns a one-shot reminder due an hour from now
func CreateTestReminder(userID int64, message string) models.NewReminder {
	return models.NewReminder{
		UserID:   userID,
		Message:  message,
		RemindOn: time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond),
	}
}

// CreateTestSchedule returns a schedule due in d
func CreateTestSchedule(userID int64, scheduleType models.ScheduleType, d time.Duration) models.Schedule {
	return models.Schedule{
		UserID:      userID,
		Type:        scheduleType,
		ScheduledOn: time.Now().UTC().Add(d).Truncate(time.Microsecond),
	}
}

// CreateTestAuctionReminder returns an auction reminder ending in d
func CreateTestAuctionReminder(auctionID, userID int64, d time.Duration) models.AuctionReminder {
	return models.AuctionReminder{
		AuctionID: auctionID,
		UserID:    userID,
		Pokemon:   "Mew",
		EndsOn:    time.Now().UTC().Add(d).Truncate(time.Microsecond),
		ChannelID: 4242,
	}
}
