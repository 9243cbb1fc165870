package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("board not found")

// Store persists boards and their element-list snapshots in Postgres.
// A snapshot is the committed canvas of a board at one version; versions
// increase monotonically per board.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			display_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS board_snapshots (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
			version INT NOT NULL,
			elements JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (board_id, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(owner_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Snapshot struct {
	ID        string          `json:"id"`
	BoardID   string          `json:"boardId"`
	Version   int32           `json:"version"`
	Elements  json.RawMessage `json:"elements"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (s *Store) CreateBoard(ctx context.Context, id, name, ownerID string) (Board, error) {
	var b Board
	err := s.pool.QueryRow(ctx,
		`INSERT INTO boards (id, name, owner_id) VALUES ($1, $2, $3)
		 RETURNING id, name, owner_id, created_at, updated_at`,
		id, name, ownerID,
	).Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Board{}, fmt.Errorf("create board: %w", err)
	}
	return b, nil
}

func (s *Store) GetBoard(ctx context.Context, id string) (Board, error) {
	var b Board
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Board{}, ErrNotFound
		}
		return Board{}, fmt.Errorf("get board: %w", err)
	}
	return b, nil
}

func (s *Store) ListBoards(ctx context.Context, ownerID string) ([]Board, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM boards
		 WHERE owner_id = $1 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var boards []Board
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveSnapshot stores elements as the next version of the board's canvas
// and bumps the board's updated_at. Returns the new version.
func (s *Store) SaveSnapshot(ctx context.Context, snapID, boardID string, elements json.RawMessage) (int32, error) {
	var version int32
	err := s.pool.QueryRow(ctx,
		`INSERT INTO board_snapshots (id, board_id, version, elements)
		 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		 FROM board_snapshots WHERE board_id = $2
		 RETURNING version`,
		snapID, boardID, elements,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`UPDATE boards SET updated_at = now() WHERE id = $1`, boardID,
	); err != nil {
		return 0, fmt.Errorf("touch board: %w", err)
	}
	return version, nil
}

func (s *Store) LatestSnapshot(ctx context.Context, boardID string) (Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, board_id, version, elements, created_at FROM board_snapshots
		 WHERE board_id = $1 ORDER BY version DESC LIMIT 1`,
		boardID,
	).Scan(&snap.ID, &snap.BoardID, &snap.Version, &snap.Elements, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}
