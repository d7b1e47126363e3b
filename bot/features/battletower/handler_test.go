package battletower

import (
	"context"
	"testing"

	"mew/bot/common"
	"mew/service"
	"mew/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_MovesChannel(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewBattleTowerStore()
	f := NewFeature(service.NewBattleTowerService(store))

	reply, err := f.register(ctx, 5, 10)
	require.NoError(t, err)
	assert.Contains(t, reply, "<#10>")
	assert.Contains(t, reply, "when the battle tower resets")

	reply, err = f.register(ctx, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, "Battle tower pings now go to <#11>.", reply)

	row, ok := store.Row(5)
	require.True(t, ok)
	assert.Equal(t, int64(11), row.ChannelID)
}

func TestRegister_StoreFailureIsSystemError(t *testing.T) {
	store := servicetest.NewBattleTowerStore()
	store.Fail(servicetest.ErrStoreDown)
	f := NewFeature(service.NewBattleTowerService(store))

	_, err := f.register(context.Background(), 5, 10)
	var botErr *common.BotError
	require.ErrorAs(t, err, &botErr)
	assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
	assert.False(t, f.registrations.Registered(5))
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	f := NewFeature(service.NewBattleTowerService(servicetest.NewBattleTowerStore()))

	_, err := f.unregister(ctx, 5)
	var botErr *common.BotError
	require.ErrorAs(t, err, &botErr)

	_, err = f.register(ctx, 5, 10)
	require.NoError(t, err)
	reply, err := f.unregister(ctx, 5)
	require.NoError(t, err)
	assert.Contains(t, reply, "no longer")
	assert.False(t, f.registrations.Registered(5))
}
