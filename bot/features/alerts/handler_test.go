package alerts

import (
	"context"
	"testing"

	"mew/bot/common"
	"mew/models"
	"mew/service"
	"mew/service/servicetest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(opts ...*discordgo.ApplicationCommandInteractionDataOption) common.Options {
	return common.NewOptions(opts)
}

func str(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func integer(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v)}
}

func boolean(name string, v bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: v}
}

func newTestFeature() (*Feature, *servicetest.AlertStore, *service.MarketService) {
	store := servicetest.NewAlertStore()
	market := service.NewMarketService(servicetest.NewMarketStore(), nil)
	return NewFeature(service.NewAlertService(store), market), store, market
}

func TestAdd_CreatesThenPatches(t *testing.T) {
	ctx := context.Background()
	f, store, market := newTestFeature()

	_, err := market.RecordListing(ctx, service.Listing{ID: "1", PokemonKey: "mr-mime", DexNumber: 122, Price: 900})
	require.NoError(t, err)

	reply, err := f.add(ctx, 5, 10, options(str("pokemon", "Mr. Mime"), integer("max_price", 1500)))
	require.NoError(t, err)
	assert.Contains(t, reply, "**mr-mime**")
	assert.Contains(t, reply, "1,500")

	key := models.AlertKey{PokemonKey: "mr-mime", ChannelID: 10, UserID: 5}
	stored, ok := store.Row(key)
	require.True(t, ok)
	assert.Equal(t, 122, stored.DexNumber)
	assert.True(t, stored.Notify)

	_, err = f.toggle(ctx, 5, 10, options(str("pokemon", "mr mime"), boolean("enabled", false)))
	require.NoError(t, err)

	cached, ok := f.alerts.Cached(key)
	require.True(t, ok)
	assert.False(t, cached.Notify)
	assert.Equal(t, int64(1500), cached.MaxPrice)
}

func TestAdd_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f, store, _ := newTestFeature()

	_, err := f.add(ctx, 5, 10, options(str("pokemon", "**"), integer("max_price", 10)))
	var botErr *common.BotError
	require.ErrorAs(t, err, &botErr)
	assert.Equal(t, "Please name a pokemon.", botErr.UserMessage)

	_, err = f.add(ctx, 5, 10, options(str("pokemon", "Eevee"), integer("max_price", -1)))
	require.ErrorAs(t, err, &botErr)
	assert.Equal(t, 0, store.Calls())
}

func TestRemoveAndToggle_UnknownAlert(t *testing.T) {
	ctx := context.Background()
	f, _, _ := newTestFeature()

	_, err := f.remove(ctx, 5, 10, options(str("pokemon", "Eevee")))
	var botErr *common.BotError
	require.ErrorAs(t, err, &botErr)
	assert.Contains(t, botErr.UserMessage, "no alert")

	_, err = f.toggle(ctx, 5, 10, options(str("pokemon", "Eevee"), boolean("enabled", true)))
	require.ErrorAs(t, err, &botErr)
	assert.Empty(t, f.alerts.ForUser(5))
}

func TestAdd_StoreFailureIsSystemError(t *testing.T) {
	ctx := context.Background()
	f, store, _ := newTestFeature()
	store.Fail(servicetest.ErrStoreDown)

	_, err := f.add(ctx, 5, 10, options(str("pokemon", "Eevee"), integer("max_price", 10)))
	var botErr *common.BotError
	require.ErrorAs(t, err, &botErr)
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)
	assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
	assert.Empty(t, f.alerts.ForUser(5))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f, _, _ := newTestFeature()

	assert.Contains(t, f.list(5).Description, "no alerts")

	_, err := f.add(ctx, 5, 10, options(str("pokemon", "Eevee"), integer("max_price", 300)))
	require.NoError(t, err)

	embed := f.list(5)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "eevee", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "<#10>")
}
