package auctions

import (
	"context"
	"strconv"
	"testing"
	"time"

	"mew/bot/common"
	"mew/models"
	"mew/service"
	"mew/service/servicetest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestFeature() (*Feature, *servicetest.AuctionStore) {
	store := servicetest.NewAuctionStore()
	f := NewFeature(service.NewAuctionService(store))
	f.now = func() time.Time { return now }
	return f, store
}

func remindOptions(auctionID int, pokemon, endsIn string) common.Options {
	return common.NewOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "auction_id", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(auctionID)},
		{Name: "pokemon", Type: discordgo.ApplicationCommandOptionString, Value: pokemon},
		{Name: "ends_in", Type: discordgo.ApplicationCommandOptionString, Value: endsIn},
	})
}

func TestRemind_StoresEndTime(t *testing.T) {
	f, store := newTestFeature()

	reply, err := f.remind(context.Background(), 5, 10, remindOptions(42, "Dratini", "3h 20m"))
	require.NoError(t, err)
	assert.Contains(t, reply, "**42**")

	row, ok := store.Row(models.AuctionKey{AuctionID: 42, UserID: 5})
	require.True(t, ok)
	assert.Equal(t, now.Add(3*time.Hour+20*time.Minute), row.EndsOn)
	assert.Equal(t, "Dratini", row.Pokemon)
	assert.Equal(t, int64(10), row.ChannelID)
}

func TestRemind_AcceptsTimestamp(t *testing.T) {
	f, store := newTestFeature()
	ends := now.Add(90 * time.Minute)

	_, err := f.remind(context.Background(), 5, 10, remindOptions(7, "", "<t:"+strconv.FormatInt(ends.Unix(), 10)+":R>"))
	require.NoError(t, err)
	row, ok := store.Row(models.AuctionKey{AuctionID: 7, UserID: 5})
	require.True(t, ok)
	assert.True(t, ends.Equal(row.EndsOn))
}

func TestRemind_RejectsBadInput(t *testing.T) {
	past := "<t:" + strconv.FormatInt(now.Add(-time.Minute).Unix(), 10) + ":R>"
	tests := []struct {
		name string
		opts common.Options
	}{
		{"zero id", remindOptions(0, "Dratini", "1h")},
		{"no time", remindOptions(3, "Dratini", "soon")},
		{"ended", remindOptions(3, "Dratini", past)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, store := newTestFeature()
			_, err := f.remind(context.Background(), 5, 10, tt.opts)
			var botErr *common.BotError
			require.ErrorAs(t, err, &botErr)
			assert.Equal(t, 0, store.Calls())
		})
	}
}

func TestCancelAndList(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFeature()

	_, err := f.remind(ctx, 5, 10, remindOptions(2, "Larvitar", "5h"))
	require.NoError(t, err)
	_, err = f.remind(ctx, 5, 10, remindOptions(1, "Dratini", "1h"))
	require.NoError(t, err)

	embed := f.list(5)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "#1 Dratini", embed.Fields[0].Name)

	cancelOpts := common.NewOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "auction_id", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(1)},
	})
	_, err = f.cancel(ctx, 5, cancelOpts)
	require.NoError(t, err)
	_, err = f.cancel(ctx, 5, cancelOpts)
	var botErr *common.BotError
	assert.ErrorAs(t, err, &botErr)

	assert.Len(t, f.list(5).Fields, 1)
	assert.Equal(t, "You have no auction reminders.", f.list(6).Description)
}
