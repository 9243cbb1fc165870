package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/easelhq/easel/internal/auth"
)

// The store doubles as the auth account backend: accounts live in the
// users table next to the boards they own.
var _ auth.AccountStore = (*Store)(nil)

func (s *Store) CreateAccount(ctx context.Context, a auth.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password, display_name) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Email, a.PasswordHash, a.DisplayName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name FROM users WHERE email = $1`, email))
}

func (s *Store) AccountByID(ctx context.Context, id string) (auth.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name FROM users WHERE id = $1`, id))
}

func (s *Store) scanAccount(row pgx.Row) (auth.Account, error) {
	var a auth.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Account{}, auth.ErrAccountNotFound
		}
		return auth.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
