package ledgerstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campustt/timetable-core/internal/domain"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// snapshotRow is the ledger_snapshots table shape, adapted from the
// teacher's SemesterSchedule persistence pattern (versioned rows keyed by
// a scope tuple, JSON payload column).
type snapshotRow struct {
	ID        string         `db:"id"`
	Term      string         `db:"term"`
	Version   int            `db:"version"`
	Hash      string         `db:"hash"`
	Payload   types.JSONText `db:"payload"`
	CreatedAt time.Time      `db:"created_at"`
}

// PostgresStore is the durable, versioned history of every committed
// ledger snapshot, adapted from internal/repository.SemesterScheduleRepository's
// CreateVersioned/ListByTermClass/FindByID shape. Unlike RedisStore it
// never overwrites: every Save appends the next version for its term, so
// a full audit trail survives even a Redis cache flush.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore over an already-opened
// connection pool (see pkg/database.NewPostgres).
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts `snap` as the next version for its term.
func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := marshalSnapshot(snap)
	if err != nil {
		return err
	}

	row := snapshotRow{
		ID:      uuid.NewString(),
		Term:    string(snap.Term),
		Hash:    snap.Hash,
		Payload: payload,
	}

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM ledger_snapshots WHERE term = $1`
	if err := sqlx.GetContext(ctx, s.db, &row.Version, nextVersionQuery, row.Term); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "compute next ledger snapshot version")
	}

	const insertQuery = `
INSERT INTO ledger_snapshots (id, term, version, hash, payload, created_at)
VALUES (:id, :term, :version, :hash, :payload, :created_at)`
	row.CreatedAt = time.Now().UTC()
	if _, err := sqlx.NamedExecContext(ctx, s.db, insertQuery, row); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "insert ledger snapshot")
	}
	return nil
}

// Latest returns the highest-versioned snapshot recorded for `term`. ok
// is false when the term has no history yet.
func (s *PostgresStore) Latest(ctx context.Context, term domain.Term) (snap Snapshot, ok bool, err error) {
	const query = `SELECT id, term, version, hash, payload, created_at FROM ledger_snapshots
WHERE term = $1 ORDER BY version DESC LIMIT 1`
	var row snapshotRow
	if getErr := s.db.GetContext(ctx, &row, query, string(term)); getErr != nil {
		if errors.Is(getErr, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, appErrors.Wrap(getErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load latest ledger snapshot")
	}
	snap, err = unmarshalSnapshot(row.Payload)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// History lists every version committed for `term`, newest first.
func (s *PostgresStore) History(ctx context.Context, term domain.Term) ([]Snapshot, error) {
	const query = `SELECT id, term, version, hash, payload, created_at FROM ledger_snapshots
WHERE term = $1 ORDER BY version DESC`
	var rows []snapshotRow
	if err := s.db.SelectContext(ctx, &rows, query, string(term)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list ledger snapshot history")
	}
	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := unmarshalSnapshot(row.Payload)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func marshalSnapshot(snap Snapshot) (types.JSONText, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal ledger snapshot payload")
	}
	return types.JSONText(raw), nil
}

func unmarshalSnapshot(payload types.JSONText) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unmarshal ledger snapshot payload")
	}
	return snap, nil
}
