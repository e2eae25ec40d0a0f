// Package store persists named deal parameter sets so the editor can reload
// them. Projections are never stored; they are recomputed on every read.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no deal has the requested ID.
var ErrNotFound = errors.New("deal not found")

// ErrNameRequired is returned when a deal is saved without a name.
var ErrNameRequired = errors.New("deal name is required")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS deals (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	artist_name TEXT NOT NULL DEFAULT '',
	params      TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS deals_name ON deals (name);
`

// Deal is a saved parameter set.
type Deal struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Params    projection.DealParams `json:"params"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type dealRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	ArtistName string `db:"artist_name"`
	Params     string `db:"params"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

// Store is a SQLite-backed deal repository. All access goes through a single
// connection, so it is safe for concurrent use.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Debug("deal store opened",
		zap.String("op", "store.Open"),
		zap.String("path", path),
	)

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create saves a new deal and returns it with its generated ID.
func (s *Store) Create(ctx context.Context, name string, params projection.DealParams) (Deal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deal{}, ErrNameRequired
	}

	now := s.now().UTC()
	deal := Deal{
		ID:        uuid.NewString(),
		Name:      name,
		Params:    params,
		CreatedAt: now,
		UpdatedAt: now,
	}
	row, err := toRow(deal)
	if err != nil {
		return Deal{}, err
	}

	_, err = s.db.NamedExecContext(ctx, `INSERT INTO deals (id, name, artist_name, params, created_at, updated_at)
		VALUES (:id, :name, :artist_name, :params, :created_at, :updated_at)`, row)
	if err != nil {
		return Deal{}, fmt.Errorf("insert deal: %w", err)
	}

	s.logger.Info("deal saved",
		zap.String("op", "store.Create"),
		zap.String("id", deal.ID),
		zap.String("name", deal.Name),
	)
	return deal, nil
}

// Get loads a deal by ID.
func (s *Store) Get(ctx context.Context, id string) (Deal, error) {
	var row dealRow
	err := s.db.GetContext(ctx, &row, `SELECT id, name, artist_name, params, created_at, updated_at FROM deals WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Deal{}, ErrNotFound
	}
	if err != nil {
		return Deal{}, fmt.Errorf("select deal %s: %w", id, err)
	}
	return fromRow(row)
}

// List returns every saved deal ordered by name.
func (s *Store) List(ctx context.Context) ([]Deal, error) {
	var rows []dealRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, artist_name, params, created_at, updated_at FROM deals ORDER BY name, created_at`); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}

	deals := make([]Deal, 0, len(rows))
	for _, row := range rows {
		deal, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// Update replaces the name and parameters of an existing deal.
func (s *Store) Update(ctx context.Context, id, name string, params projection.DealParams) (Deal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deal{}, ErrNameRequired
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return Deal{}, err
	}
	existing.Name = name
	existing.Params = params
	existing.UpdatedAt = s.now().UTC()

	row, err := toRow(existing)
	if err != nil {
		return Deal{}, err
	}
	res, err := s.db.NamedExecContext(ctx, `UPDATE deals SET name = :name, artist_name = :artist_name,
		params = :params, updated_at = :updated_at WHERE id = :id`, row)
	if err != nil {
		return Deal{}, fmt.Errorf("update deal %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Deal{}, ErrNotFound
	}

	s.logger.Info("deal updated",
		zap.String("op", "store.Update"),
		zap.String("id", id),
	)
	return existing, nil
}

// Delete removes a deal.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deal %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deal %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Info("deal deleted",
		zap.String("op", "store.Delete"),
		zap.String("id", id),
	)
	return nil
}

func toRow(deal Deal) (dealRow, error) {
	params, err := json.Marshal(deal.Params)
	if err != nil {
		return dealRow{}, fmt.Errorf("encode deal params: %w", err)
	}
	return dealRow{
		ID:         deal.ID,
		Name:       deal.Name,
		ArtistName: deal.Params.ArtistName,
		Params:     string(params),
		CreatedAt:  deal.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  deal.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

func fromRow(row dealRow) (Deal, error) {
	deal := Deal{ID: row.ID, Name: row.Name}
	if err := json.Unmarshal([]byte(row.Params), &deal.Params); err != nil {
		return Deal{}, fmt.Errorf("decode deal %s params: %w", row.ID, err)
	}
	var err error
	if deal.CreatedAt, err = time.Parse(time.RFC3339Nano, row.CreatedAt); err != nil {
		return Deal{}, fmt.Errorf("decode deal %s created_at: %w", row.ID, err)
	}
	if deal.UpdatedAt, err = time.Parse(time.RFC3339Nano, row.UpdatedAt); err != nil {
		return Deal{}, fmt.Errorf("decode deal %s updated_at: %w", row.ID, err)
	}
	return deal, nil
}
