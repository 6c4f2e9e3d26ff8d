package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/gauntlet/internal/game/warrant"
)

// ErrWarrantNotFound is returned when a character has no stored warrant.
var ErrWarrantNotFound = errors.New("warrant not found")

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// WarrantRepository persists warrant snapshots independently of the rest of
// the character, so allocations can be saved as they happen.
type WarrantRepository struct {
	db *pgxpool.Pool
}

// NewWarrantRepository creates a WarrantRepository backed by the given pool.
func NewWarrantRepository(db *pgxpool.Pool) *WarrantRepository {
	return &WarrantRepository{db: db}
}

// Save stores s for the character id.
//
// Precondition: a characters row for id must exist.
func (r *WarrantRepository) Save(ctx context.Context, id uuid.UUID, s warrant.Snapshot) error {
	if err := r.save(ctx, r.db, id, s); err != nil {
		return fmt.Errorf("saving warrant for %s: %w", id, err)
	}
	return nil
}

func (r *WarrantRepository) save(ctx context.Context, db execer, id uuid.UUID, s warrant.Snapshot) error {
	state, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding warrant %q: %w", s.BoardID, err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO character_warrants (character_id, board_id, state)
		VALUES ($1, $2, $3)
		ON CONFLICT (character_id) DO UPDATE SET
			board_id = EXCLUDED.board_id,
			state = EXCLUDED.state,
			updated_at = NOW()`,
		id, s.BoardID, state,
	)
	return err
}

func (r *WarrantRepository) delete(ctx context.Context, db execer, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM character_warrants WHERE character_id = $1`, id)
	return err
}

// Load returns the stored warrant for the character id.
//
// Postcondition: Returns the snapshot or ErrWarrantNotFound.
func (r *WarrantRepository) Load(ctx context.Context, id uuid.UUID) (warrant.Snapshot, error) {
	var (
		out   warrant.Snapshot
		state []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT state FROM character_warrants WHERE character_id = $1`, id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, ErrWarrantNotFound
		}
		return out, fmt.Errorf("loading warrant for %s: %w", id, err)
	}
	if err := json.Unmarshal(state, &out); err != nil {
		return out, fmt.Errorf("decoding warrant for %s: %w", id, err)
	}
	return out, nil
}
