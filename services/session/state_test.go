package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaquote/models"
)

func TestNew_Defaults(t *testing.T) {
	s := New("demo", models.ModeArea)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Equal(t, []models.ServiceKey{models.ServiceMowing}, s.Services)
	assert.Equal(t, models.FrequencyWeekly, s.Frequency)
	assert.Equal(t, Lead{}, s.Lead)
}

func TestServiceSelection(t *testing.T) {
	s := New("demo", models.ModeArea)

	s.AddService(models.ServiceAeration)
	s.AddService(models.ServiceAeration)
	assert.Equal(t, []models.ServiceKey{models.ServiceMowing, models.ServiceAeration}, s.Services)

	s.ToggleService(models.ServiceMowing)
	assert.Equal(t, []models.ServiceKey{models.ServiceAeration}, s.Services)

	s.ToggleService(models.ServicePowerRake)
	s.RemoveService(models.ServiceAeration)
	assert.Equal(t, []models.ServiceKey{models.ServicePowerRake}, s.Services)
}

func TestSetMowingFrequency(t *testing.T) {
	s := New("demo", models.ModeArea)
	s.SetMowingFrequency(models.FrequencyBiweekly)
	assert.Equal(t, models.FrequencyBiweekly, s.Frequency)

	s.SetMowingFrequency("monthly")
	assert.Equal(t, models.FrequencyBiweekly, s.Frequency)
}

func TestSetMeasurement(t *testing.T) {
	area := New("demo", models.ModeArea)
	area.SetMeasurement(4250.6)
	assert.Equal(t, 4251.0, area.Measurement)
	area.SetMeasurement(-5)
	assert.Zero(t, area.Measurement)

	length := New("demo", models.ModeLength)
	length.SetMeasurement(120.4)
	assert.Equal(t, 120.4, length.Measurement)
}

func TestSetLeadField(t *testing.T) {
	s := New("demo", models.ModeArea)
	require.NoError(t, s.SetLeadField("name", "Ann"))
	require.NoError(t, s.SetLeadField("preferredDate", "2026-05-01"))
	assert.Equal(t, "Ann", s.Lead.Name)
	assert.Equal(t, "2026-05-01", s.Lead.PreferredDate)

	assert.ErrorIs(t, s.SetLeadField("ssn", "x"), ErrUnknownLeadField)
}

func TestChangeAddress(t *testing.T) {
	s := New("demo", models.ModeArea)
	center := &models.LatLng{Lat: 1, Lng: 2}
	s.ChangeAddress("12 Oak Ln", center)
	s.SetShapes([][]models.LatLng{{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}})
	s.SetMeasurement(3000)

	assert.False(t, s.ChangeAddress("  12 OAK LN ", nil), "same address after normalization")
	assert.Equal(t, 3000.0, s.Measurement)
	assert.Equal(t, center, s.Center)

	assert.True(t, s.ChangeAddress("99 Elm St", nil))
	assert.Zero(t, s.Measurement)
	assert.Nil(t, s.Shapes)
	assert.Nil(t, s.Center)
	assert.Equal(t, "99 Elm St", s.Address)
}

func TestBegin(t *testing.T) {
	s := New("demo", models.ModeArea)
	s.SetAddress("12 Oak Ln")
	s.AddService(models.ServiceAeration)

	s.Begin(true)
	assert.Equal(t, "12 Oak Ln", s.Address)
	assert.Len(t, s.Services, 2)

	id := s.ID
	s.Begin(false)
	assert.Empty(t, s.Address)
	assert.Equal(t, []models.ServiceKey{models.ServiceMowing}, s.Services)
	assert.Equal(t, id, s.ID)
}

func TestMigrateServices(t *testing.T) {
	cases := []struct {
		name string
		in   []models.ServiceKey
		want []models.ServiceKey
	}{
		{"current keys untouched", []models.ServiceKey{"mowing", "aeration"}, []models.ServiceKey{"mowing", "aeration"}},
		{"legacy remapped", []models.ServiceKey{"fertWeed", "dethatching"}, []models.ServiceKey{"fertilizing", "powerRake"}},
		{"seed dropped", []models.ServiceKey{"seed", "aeration"}, []models.ServiceKey{"aeration"}},
		{"duplicates after remap", []models.ServiceKey{"power_rake", "powerRake"}, []models.ServiceKey{"powerRake"}},
		{"only removed keys", []models.ServiceKey{"seed", "snowRemoval"}, []models.ServiceKey{"mowing"}},
		{"empty", nil, []models.ServiceKey{"mowing"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MigrateServices(tc.in))
		})
	}
}

func TestMigrate(t *testing.T) {
	s := &State{Version: 1, Services: []models.ServiceKey{"seed"}, Frequency: "monthly", Measurement: -3}
	Migrate(s)
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Equal(t, []models.ServiceKey{models.ServiceMowing}, s.Services)
	assert.Equal(t, models.FrequencyWeekly, s.Frequency)
	assert.Equal(t, models.ModeArea, s.Mode)
	assert.Zero(t, s.Measurement)
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := New("demo", models.ModeArea)
	s.Services = []models.ServiceKey{"fertWeed", "mowing"}
	s.SetAddress("12 Oak Ln")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Oak Ln", got.Address)
	assert.Equal(t, []models.ServiceKey{models.ServiceFertilizing, models.ServiceMowing}, got.Services)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Minute))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	exerciseStore(t, NewRedisStore(client, time.Minute))
}
