package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daasheo/immortalworld/internal/game/cultivation"
)

// ErrCultivatorNotFound is returned when a cultivator does not exist.
var ErrCultivatorNotFound = errors.New("cultivator not found")

// CultivatorRecord is a persisted cultivator: identity plus progression state.
type CultivatorRecord struct {
	ID        uuid.UUID
	Name      string
	State     *cultivation.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CultivatorRepository persists cultivator progression state in PostgreSQL.
// Rows store the same named fields as the snapshot wire form, one column per
// field, so the schema is queryable rather than an opaque blob.
type CultivatorRepository struct {
	db *pgxpool.Pool
}

// NewCultivatorRepository creates a repository backed by the given pool.
//
// Precondition: pool must be non-nil and connected.
func NewCultivatorRepository(pool *Pool) *CultivatorRepository {
	return &CultivatorRepository{db: pool.DB()}
}

const cultivatorColumns = `
	id, name,
	current_qi, max_qi,
	realm_tier, subrealm, subrealm_progress, total_exp,
	body_strength, spiritual_sense, constitution, talent,
	ring_slots_used,
	karma, last_karma_change,
	daily_rest_seconds, last_rest_tick, resting_since,
	tribulations_completed,
	created_at, updated_at`

// Create inserts a new cultivator with the given name and state.
//
// Precondition: name must be non-empty; state must be non-nil.
// Postcondition: Returns the stored record with a generated ID, or an error.
func (r *CultivatorRepository) Create(ctx context.Context, name string, state *cultivation.State) (*CultivatorRecord, error) {
	if name == "" {
		return nil, errors.New("cultivator name must not be empty")
	}
	if state == nil {
		return nil, errors.New("cultivator state must not be nil")
	}

	snap := state.Snapshot()
	id := uuid.New()
	now := time.Now().UTC()

	const query = `
		INSERT INTO cultivators (
			id, name,
			current_qi, max_qi,
			realm_tier, subrealm, subrealm_progress, total_exp,
			body_strength, spiritual_sense, constitution, talent,
			ring_slots_used,
			karma, last_karma_change,
			daily_rest_seconds, last_rest_tick, resting_since,
			tribulations_completed,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)`

	_, err := r.db.Exec(ctx, query,
		id, name,
		snap.CurrentQi, snap.MaxQi,
		snap.RealmTier, snap.Subrealm, snap.SubrealmProgress, snap.TotalSpiritualExp,
		snap.BodyStrength, snap.SpiritualSense, snap.Constitution, snap.Talent,
		snap.RingSlotsUsed,
		snap.Karma, millisToNullableTime(snap.LastKarmaModification),
		snap.MeditationTimeToday, millisToNullableTime(snap.LastMeditationTick), millisToNullableTime(snap.RestingSince),
		snap.TribulationsCompleted,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting cultivator: %w", err)
	}

	return &CultivatorRecord{
		ID:        id,
		Name:      name,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetByID fetches a cultivator by ID.
//
// Postcondition: Returns the record, ErrCultivatorNotFound, or another error.
func (r *CultivatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*CultivatorRecord, error) {
	query := `SELECT ` + cultivatorColumns + ` FROM cultivators WHERE id = $1`

	rec, err := scanCultivator(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCultivatorNotFound
		}
		return nil, fmt.Errorf("fetching cultivator %s: %w", id, err)
	}
	return rec, nil
}

// GetByName fetches a cultivator by display name.
//
// Postcondition: Returns the record, ErrCultivatorNotFound, or another error.
func (r *CultivatorRepository) GetByName(ctx context.Context, name string) (*CultivatorRecord, error) {
	query := `SELECT ` + cultivatorColumns + ` FROM cultivators WHERE name = $1`

	rec, err := scanCultivator(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCultivatorNotFound
		}
		return nil, fmt.Errorf("fetching cultivator %q: %w", name, err)
	}
	return rec, nil
}

// Save writes the current progression state for an existing cultivator.
//
// Precondition: state must be non-nil.
// Postcondition: The row reflects state, or ErrCultivatorNotFound if absent.
func (r *CultivatorRepository) Save(ctx context.Context, id uuid.UUID, state *cultivation.State) error {
	if state == nil {
		return errors.New("cultivator state must not be nil")
	}

	snap := state.Snapshot()

	const query = `
		UPDATE cultivators SET
			current_qi = $2, max_qi = $3,
			realm_tier = $4, subrealm = $5, subrealm_progress = $6, total_exp = $7,
			body_strength = $8, spiritual_sense = $9, constitution = $10, talent = $11,
			ring_slots_used = $12,
			karma = $13, last_karma_change = $14,
			daily_rest_seconds = $15, last_rest_tick = $16, resting_since = $17,
			tribulations_completed = $18,
			updated_at = $19
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		id,
		snap.CurrentQi, snap.MaxQi,
		snap.RealmTier, snap.Subrealm, snap.SubrealmProgress, snap.TotalSpiritualExp,
		snap.BodyStrength, snap.SpiritualSense, snap.Constitution, snap.Talent,
		snap.RingSlotsUsed,
		snap.Karma, millisToNullableTime(snap.LastKarmaModification),
		snap.MeditationTimeToday, millisToNullableTime(snap.LastMeditationTick), millisToNullableTime(snap.RestingSince),
		snap.TribulationsCompleted,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("updating cultivator %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCultivatorNotFound
	}
	return nil
}

// Delete removes a cultivator.
//
// Postcondition: The row is gone, or ErrCultivatorNotFound if it never existed.
func (r *CultivatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cultivators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting cultivator %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCultivatorNotFound
	}
	return nil
}

// List returns all cultivators ordered by name.
func (r *CultivatorRepository) List(ctx context.Context) ([]*CultivatorRecord, error) {
	query := `SELECT ` + cultivatorColumns + ` FROM cultivators ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing cultivators: %w", err)
	}
	defer rows.Close()

	var records []*CultivatorRecord
	for rows.Next() {
		rec, err := scanCultivator(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cultivator row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cultivator rows: %w", err)
	}
	return records, nil
}

// scanCultivator reads one row into a record, rebuilding the State through the
// snapshot decoder so a corrupted row cannot produce an invalid state.
func scanCultivator(row pgx.Row) (*CultivatorRecord, error) {
	var (
		rec          CultivatorRecord
		snap         cultivation.Snapshot
		karmaChange  *time.Time
		restTick     *time.Time
		restingSince *time.Time
	)

	err := row.Scan(
		&rec.ID, &rec.Name,
		&snap.CurrentQi, &snap.MaxQi,
		&snap.RealmTier, &snap.Subrealm, &snap.SubrealmProgress, &snap.TotalSpiritualExp,
		&snap.BodyStrength, &snap.SpiritualSense, &snap.Constitution, &snap.Talent,
		&snap.RingSlotsUsed,
		&snap.Karma, &karmaChange,
		&snap.MeditationTimeToday, &restTick, &restingSince,
		&snap.TribulationsCompleted,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snap.LastKarmaModification = nullableTimeToMillis(karmaChange)
	snap.LastMeditationTick = nullableTimeToMillis(restTick)
	snap.RestingSince = nullableTimeToMillis(restingSince)

	state, err := cultivation.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("cultivator %s: %w", rec.ID, err)
	}
	rec.State = state
	return &rec, nil
}

func millisToNullableTime(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func nullableTimeToMillis(t *time.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
