package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/game"
)

// ErrUserNotFound reports an id with no profile row.
var ErrUserNotFound = errors.New("user not found")

// Resolve fetches a user profile by id. Implements game.UserResolver.
func (p *Postgres) Resolve(ctx context.Context, id int) (game.User, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, nickname, avatar, patch
		FROM users
		WHERE id = $1
	`, id)

	var u game.User
	if err := row.Scan(&u.ID, &u.Nickname, &u.Avatar, &u.Patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return game.User{}, ErrUserNotFound
		}
		return game.User{}, fmt.Errorf("querying user %d: %w", id, err)
	}

	p.log.Debug("user resolved", zap.Int("id", u.ID))
	return u, nil
}
