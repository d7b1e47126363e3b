package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlert_ApplyPreservesOmittedFields(t *testing.T) {
	role := int64(77)
	alert := NewAlert(AlertKey{PokemonKey: "pikachu", ChannelID: 10, UserID: 5})
	alert.DexNumber = 25
	alert.MaxPrice = 100
	alert.RoleID = &role

	require.NoError(t, alert.Apply(AlertPatch{MaxPrice: Set[int64](50)}))

	assert.Equal(t, int64(50), alert.MaxPrice)
	assert.Equal(t, 25, alert.DexNumber)
	assert.True(t, alert.Notify)
	require.NotNil(t, alert.RoleID)
	assert.Equal(t, int64(77), *alert.RoleID)

	require.NoError(t, alert.Apply(AlertPatch{RoleID: Null[int64]()}))
	assert.Nil(t, alert.RoleID)
}

func TestAlert_ApplyRejectsNullOnRequiredColumn(t *testing.T) {
	alert := NewAlert(AlertKey{PokemonKey: "eevee", ChannelID: 1, UserID: 2})
	alert.MaxPrice = 30

	err := alert.Apply(AlertPatch{MaxPrice: Set[int64](10), Notify: Null[bool]()})

	assert.ErrorIs(t, err, ErrNullNotAllowed)
	assert.Equal(t, int64(30), alert.MaxPrice, "a rejected patch must leave the record untouched")
}

func TestAlert_Triggers(t *testing.T) {
	alert := Alert{MaxPrice: 100, Notify: true}
	assert.True(t, alert.Triggers(100))
	assert.True(t, alert.Triggers(99))
	assert.False(t, alert.Triggers(101))

	alert.Notify = false
	assert.False(t, alert.Triggers(1))
}

func TestKeys_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     interface{ Validate() error }
		wantErr bool
	}{
		{"alert ok", AlertKey{"pikachu", 10, 5}, false},
		{"alert missing pokemon", AlertKey{"", 10, 5}, true},
		{"checklist ok", ChecklistKey{5, 25}, false},
		{"checklist zero dex", ChecklistKey{5, 0}, true},
		{"reminder ok", ReminderKey{5, 1}, false},
		{"reminder zero id", ReminderKey{5, 0}, true},
		{"schedule ok", ScheduleKey{5, ScheduleTypeQuest}, false},
		{"schedule unknown type", ScheduleKey{5, "nap"}, true},
		{"auction ok", AuctionKey{900, 5}, false},
		{"auction missing user", AuctionKey{900, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReminder_NextOccurrence(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	hour := int64(3600)

	t.Run("one shot", func(t *testing.T) {
		r := Reminder{RemindOn: base}
		_, ok := r.NextOccurrence(base)
		assert.False(t, ok)
	})

	t.Run("next interval", func(t *testing.T) {
		r := Reminder{RemindOn: base, RepeatInterval: &hour}
		next, ok := r.NextOccurrence(base.Add(time.Minute))
		require.True(t, ok)
		assert.Equal(t, base.Add(time.Hour), next)
	})

	t.Run("skips missed occurrences", func(t *testing.T) {
		r := Reminder{RemindOn: base, RepeatInterval: &hour}
		next, ok := r.NextOccurrence(base.Add(5*time.Hour + time.Minute))
		require.True(t, ok)
		assert.Equal(t, base.Add(6*time.Hour), next)
	})

	t.Run("exactly on a boundary moves past it", func(t *testing.T) {
		r := Reminder{RemindOn: base, RepeatInterval: &hour}
		next, ok := r.NextOccurrence(base.Add(2 * time.Hour))
		require.True(t, ok)
		assert.Equal(t, base.Add(3*time.Hour), next)
	})
}

func TestNewReminder_Validate(t *testing.T) {
	zero := int64(0)
	now := time.Now()

	assert.NoError(t, NewReminder{UserID: 1, Message: "hi", RemindOn: now}.Validate())
	assert.ErrorIs(t, NewReminder{Message: "hi", RemindOn: now}.Validate(), ErrInvalidKey)
	assert.Error(t, NewReminder{UserID: 1, RemindOn: now}.Validate())
	assert.Error(t, NewReminder{UserID: 1, Message: "hi"}.Validate())
	assert.Error(t, NewReminder{UserID: 1, Message: "hi", RemindOn: now, RepeatInterval: &zero}.Validate())
}

func TestMarketValue_ApplyMergesTrueLowest(t *testing.T) {
	var m MarketValue

	require.NoError(t, m.Apply(MarketPatch{TrueLowest: Set[int64](100), ListingSeen: Set("t1")}))
	require.NoError(t, m.Apply(MarketPatch{TrueLowest: Set[int64](150), ListingSeen: Set("t2")}))

	require.NotNil(t, m.TrueLowest)
	assert.Equal(t, int64(100), *m.TrueLowest)
	require.NotNil(t, m.ListingSeen)
	assert.Equal(t, "t2", *m.ListingSeen)

	require.NoError(t, m.Apply(MarketPatch{TrueLowest: Set[int64](80)}))
	assert.Equal(t, int64(80), *m.TrueLowest)
	assert.Equal(t, "t2", *m.ListingSeen)
}

func TestFactionBalls_Apply(t *testing.T) {
	balls := FactionBalls{}
	require.NoError(t, balls.Apply(FactionBallPatch{FactionRocket: Set("Ultra Ball")}))

	got, ok := balls.Ball(FactionRocket)
	assert.True(t, ok)
	assert.Equal(t, "Ultra Ball", got)

	snapshot := balls.Clone()
	require.NoError(t, balls.Apply(FactionBallPatch{FactionRocket: Null[string](), FactionAqua: Set("Great Ball")}))

	_, ok = balls.Ball(FactionRocket)
	assert.False(t, ok)
	got, _ = snapshot.Ball(FactionRocket)
	assert.Equal(t, "Ultra Ball", got, "clones must not share the ball map")
}

func TestClone_SharesNoPointers(t *testing.T) {
	channel, repeat := int64(10), int64(3600)
	r := Reminder{UserID: 1, UserReminderID: 1, ChannelID: &channel, RepeatInterval: &repeat}
	rc := r.Clone()
	*rc.ChannelID = 99
	*rc.RepeatInterval = 1
	assert.Equal(t, int64(10), *r.ChannelID)
	assert.Equal(t, int64(3600), *r.RepeatInterval)

	low, seen := int64(80), "t1"
	m := MarketValue{PokemonKey: "eevee", TrueLowest: &low, ListingSeen: &seen}
	mc := m.Clone()
	*mc.TrueLowest = 1
	*mc.ListingSeen = "t9"
	assert.Equal(t, int64(80), *m.TrueLowest)
	assert.Equal(t, "t1", *m.ListingSeen)
	assert.Nil(t, mc.LowestMarket)

	balls := FactionBalls{}
	require.NoError(t, balls.Apply(FactionBallPatch{FactionSkull: Set("Dusk Ball")}))
	bc := balls.Clone()
	*bc.Balls[FactionSkull] = "Poke Ball"
	got, _ := balls.Ball(FactionSkull)
	assert.Equal(t, "Dusk Ball", got)
}

func TestParseFaction(t *testing.T) {
	tests := []struct {
		in   string
		want Faction
		err  bool
	}{
		{"Team Rocket", FactionRocket, false},
		{"galactic", FactionGalactic, false},
		{"  Team Yell ", FactionYell, false},
		{"Team Sunshine", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFaction(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Team Magma", FactionMagma.Title())
}

func TestSpookyHour_Active(t *testing.T) {
	start := time.Date(2024, 10, 31, 20, 0, 0, 0, time.UTC)
	s := &SpookyHour{StartsOn: start, EndsOn: start.Add(time.Hour)}

	assert.False(t, s.Active(start.Add(-time.Second)))
	assert.True(t, s.Active(start))
	assert.True(t, s.Active(start.Add(59*time.Minute)))
	assert.False(t, s.Active(start.Add(time.Hour)))

	var none *SpookyHour
	assert.False(t, none.Active(start))
}

func TestAuctionReminder_Due(t *testing.T) {
	ends := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	a := AuctionReminder{EndsOn: ends}

	assert.False(t, a.Due(ends.Add(-10*time.Minute), 5*time.Minute))
	assert.True(t, a.Due(ends.Add(-5*time.Minute), 5*time.Minute))
	assert.True(t, a.Due(ends.Add(time.Minute), 0))
}

func TestUtilitySettings_Defaults(t *testing.T) {
	u := NewUtilitySettings(9)
	assert.True(t, u.Reminds(ScheduleTypeCatchbot))
	assert.True(t, u.Reminds(ScheduleTypeQuest))
	assert.False(t, u.SpookyPing)
	assert.Equal(t, time.UTC, u.Location(time.UTC))

	require.NoError(t, u.Apply(UtilityPatch{QuestRemind: Set(false), Timezone: Set("Europe/Berlin")}))
	assert.False(t, u.Reminds(ScheduleTypeQuest))
	assert.Equal(t, "Europe/Berlin", u.Location(time.UTC).String())
}
