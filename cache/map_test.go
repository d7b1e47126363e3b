package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	UserID int64
	Ping   bool
	Zone   string
	Alias  *string
}

func (s settings) clone() settings {
	if s.Alias != nil {
		alias := *s.Alias
		s.Alias = &alias
	}
	return s
}

func TestMap_Operations(t *testing.T) {
	m := NewMap[int64, settings]("test_settings", nil)

	_, ok := m.Get(1)
	assert.False(t, ok)

	m.Put(1, settings{UserID: 1, Ping: true, Zone: "UTC"})
	got, ok := m.Get(1)
	require.True(t, ok)
	assert.True(t, got.Ping)

	m.Put(1, settings{UserID: 1, Ping: false, Zone: "UTC"})
	got, _ = m.Get(1)
	assert.False(t, got.Ping)

	m.Put(2, settings{UserID: 2, Ping: true})
	pinging := m.Filter(func(_ int64, s settings) bool { return s.Ping })
	require.Len(t, pinging, 1)
	assert.Equal(t, int64(2), pinging[0].UserID)

	assert.True(t, m.Delete(1))
	assert.False(t, m.Delete(1))
	assert.Equal(t, 1, m.Len())
}

func TestMap_Reload(t *testing.T) {
	m := NewMap[int64, settings]("test_settings_reload", nil)
	m.Put(99, settings{UserID: 99})

	rows := []settings{{UserID: 1}, {UserID: 2, Ping: true}}
	keyOf := func(s *settings) int64 { return s.UserID }

	m.Reload(rows, keyOf)
	first := m.All()
	m.Reload(rows, keyOf)

	assert.Equal(t, first, m.All())
	assert.Len(t, first, 2)
	_, ok := m.Get(99)
	assert.False(t, ok)
}

func TestMap_AllIsACopy(t *testing.T) {
	m := NewMap[int64, settings]("test_settings_copy", settings.clone)
	m.Put(1, settings{UserID: 1})

	all := m.All()
	delete(all, 1)

	assert.Equal(t, 1, m.Len())
}

func TestMap_PointerFieldsAreNotShared(t *testing.T) {
	m := NewMap[int64, settings]("test_settings_alias", settings.clone)
	alias := "ash"
	m.Put(1, settings{UserID: 1, Alias: &alias})
	alias = "gary"

	got, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "ash", *got.Alias)

	*got.Alias = "misty"
	*m.All()[1].Alias = "misty"
	*m.Filter(func(int64, settings) bool { return true })[0].Alias = "misty"

	again, _ := m.Get(1)
	assert.Equal(t, "ash", *again.Alias)
}
