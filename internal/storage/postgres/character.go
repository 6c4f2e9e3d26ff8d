package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/gauntlet/internal/game/character"
	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
	"github.com/cory-johannsen/gauntlet/internal/game/session"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when saving a character whose name belongs to another character.
var ErrCharacterNameTaken = errors.New("character name already taken")

// Summary is the listing view of a stored character.
type Summary struct {
	ID         uuid.UUID
	Name       string
	Class      string
	Level      int
	Experience int
	UpdatedAt  time.Time
}

// CharacterRepository persists session snapshots: the character state and
// equipment as JSONB on characters, the warrant state on character_warrants.
type CharacterRepository struct {
	db       *pgxpool.Pool
	warrants *WarrantRepository
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db, warrants: NewWarrantRepository(db)}
}

// Save inserts or replaces the stored snapshot in one transaction. A nil
// warrant snapshot removes any stored warrant.
//
// Postcondition: Load(snap.Character.ID) returns snap, or ErrCharacterNameTaken
// when another character already uses the name.
func (r *CharacterRepository) Save(ctx context.Context, snap session.Snapshot) error {
	state, err := json.Marshal(snap.Character)
	if err != nil {
		return fmt.Errorf("encoding character %s: %w", snap.Character.ID, err)
	}
	equipment, err := json.Marshal(snap.Equipment)
	if err != nil {
		return fmt.Errorf("encoding equipment for %s: %w", snap.Character.ID, err)
	}

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO characters (id, name, class, level, experience, state, equipment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				class = EXCLUDED.class,
				level = EXCLUDED.level,
				experience = EXCLUDED.experience,
				state = EXCLUDED.state,
				equipment = EXCLUDED.equipment,
				updated_at = NOW()`,
			snap.Character.ID, snap.Character.Name, snap.Character.Class,
			snap.Character.Level, snap.Character.Experience, state, equipment,
		)
		if err != nil {
			return err
		}
		if snap.Warrant == nil {
			return r.warrants.delete(ctx, tx, snap.Character.ID)
		}
		return r.warrants.save(ctx, tx, snap.Character.ID, *snap.Warrant)
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCharacterNameTaken
		}
		return fmt.Errorf("saving character %s: %w", snap.Character.ID, err)
	}
	return nil
}

// Load returns the stored snapshot for id.
//
// Postcondition: Returns the snapshot or ErrCharacterNotFound.
func (r *CharacterRepository) Load(ctx context.Context, id uuid.UUID) (session.Snapshot, error) {
	var (
		out              session.Snapshot
		state, equipment []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT state, equipment FROM characters WHERE id = $1`, id,
	).Scan(&state, &equipment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, ErrCharacterNotFound
		}
		return out, fmt.Errorf("loading character %s: %w", id, err)
	}

	var c character.Snapshot
	if err := json.Unmarshal(state, &c); err != nil {
		return out, fmt.Errorf("decoding character %s: %w", id, err)
	}
	var eq inventory.Snapshot
	if err := json.Unmarshal(equipment, &eq); err != nil {
		return out, fmt.Errorf("decoding equipment for %s: %w", id, err)
	}
	out.Character = c
	out.Equipment = eq

	w, err := r.warrants.Load(ctx, id)
	switch {
	case err == nil:
		out.Warrant = &w
	case !errors.Is(err, ErrWarrantNotFound):
		return out, err
	}
	return out, nil
}

// Delete removes the character and its warrant.
//
// Postcondition: Returns ErrCharacterNotFound if no row was deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// List returns every stored character ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, class, level, experience, updated_at
		FROM characters ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Class, &s.Level, &s.Experience, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
