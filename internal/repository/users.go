package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RiikenJobstack/jobstackParser/internal/common"
)

// User is the resolved user record gating a parse request.
type User struct {
	ID       string
	Email    string
	FullName string
}

// UserRepository resolves a user-identifier claim to a user record.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// PGUsers implements UserRepository on Postgres.
type PGUsers struct {
	pool  *pgxpool.Pool
	table string
	log   *slog.Logger
}

func NewPGUsers(pool *pgxpool.Pool, table string, logger *slog.Logger) *PGUsers {
	if table == "" {
		table = "usersv2"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PGUsers{pool: pool, table: table, log: logger}
}

// FindByID returns common.ErrNotFound when the claim does not resolve.
// Store errors also surface as not-found: the caller deliberately answers
// 401 either way and never leaks store health to the client.
func (r *PGUsers) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(
		"SELECT id, email, full_name FROM %s WHERE id = $1",
		pgx.Identifier{r.table}.Sanitize(),
	)

	var u User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.FullName)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		r.log.Info("users.not_found", "user_id", id)
		return nil, common.ErrNotFound
	case err != nil:
		r.log.Error("users.lookup_failed", "user_id", id, "error", err)
		return nil, common.ErrNotFound
	}
	r.log.Debug("users.found", "user_id", u.ID)
	return &u, nil
}
