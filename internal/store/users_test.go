package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startPostgres boots a throwaway database and returns a connected store.
// Requires Docker; skipped under -short.
func startPostgres(t *testing.T) *Postgres {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "starting postgres container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pg, err := New(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	_, err = pg.pool.Exec(ctx, `
		CREATE TABLE users (
			id       BIGSERIAL PRIMARY KEY,
			nickname VARCHAR(64) NOT NULL,
			avatar   TEXT NOT NULL DEFAULT '',
			patch    TEXT NOT NULL DEFAULT ''
		)
	`)
	require.NoError(t, err, "creating schema")

	return pg
}

func TestResolve(t *testing.T) {
	pg := startPostgres(t)
	ctx := context.Background()

	_, err := pg.pool.Exec(ctx, `
		INSERT INTO users (id, nickname, avatar, patch)
		VALUES (7, 'traveler', 'https://cdn.example/avatars/7.png', 'gold')
	`)
	require.NoError(t, err)

	u, err := pg.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "traveler", u.Nickname)
	assert.Equal(t, "https://cdn.example/avatars/7.png", u.Avatar)
	assert.Equal(t, "gold", u.Patch)
}

func TestResolve_NotFound(t *testing.T) {
	pg := startPostgres(t)

	_, err := pg.Resolve(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
