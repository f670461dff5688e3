package schedule

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rbbydotdev/someday/internal/test_utils"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	ctx := context.Background()
	db := openDb()
	repository := NewRepository(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, repository
}

func TestRepositoryImpl_GetConfigEmpty(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	cfg, err := repo.GetConfig(ctx)

	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestRepositoryImpl_StoreAndGetConfig(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	days := 14
	stored := Config{
		Policy: SchedulingPolicy{
			TimeZone:      "Europe/Warsaw",
			Workdays:      []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			WorkHours:     WorkHours{Start: 8, End: 17},
			DaysInAdvance: 21,
			Calendars:     []string{"alice@example.com", "bob@example.com"},
			Strategy:      StrategyRoundRobin,
		},
		EventTypes: []EventType{
			{
				ID:              "intro",
				Name:            "Intro Call",
				Description:     "A short introduction",
				DurationMinutes: 30,
				Selectable:      true,
				Visibility:      VisibilityDefault,
				GuestPermissions: GuestPermissions{
					CanSeeGuests: true,
				},
			},
			{
				ID:              "weekend",
				Name:            "Weekend Session",
				DurationMinutes: 60,
				Selectable:      false,
				Workdays:        []time.Weekday{time.Saturday, time.Sunday},
				WorkHours:       &WorkHours{Start: 10, End: 14},
				DaysInAdvance:   &days,
				Calendars:       []string{"carol@example.com"},
				Strategy:        StrategyCollective,
				Visibility:      VisibilityPrivate,
			},
		},
	}

	err := repo.StoreConfig(ctx, stored)
	require.NoError(t, err)

	got, err := repo.GetConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, stored.Policy, got.Policy)
	require.Len(t, got.EventTypes, 2)
	assert.Equal(t, stored.EventTypes[0], got.EventTypes[0])
	assert.Equal(t, stored.EventTypes[1], got.EventTypes[1])
}

func TestRepositoryImpl_StoreConfigReplacesPrevious(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	first := DefaultConfig()
	require.NoError(t, repo.StoreConfig(ctx, first))

	second := DefaultConfig()
	second.Policy.Calendars = []string{"team@example.com"}
	second.EventTypes = []EventType{
		{ID: "hour", Name: "One Hour", DurationMinutes: 60, Selectable: true, Visibility: VisibilityDefault},
	}
	require.NoError(t, repo.StoreConfig(ctx, second))

	got, err := repo.GetConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, []string{"team@example.com"}, got.Policy.Calendars)
	require.Len(t, got.EventTypes, 1)
	assert.Equal(t, "hour", got.EventTypes[0].ID)
}
