// Package sqlstore provides a SQL-backed guest store for SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/storage/sqlstore/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Store persists guests in a SQL database.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
	now func() time.Time
}

type guestRow struct {
	ID               string       `db:"id"`
	Name             string       `db:"name"`
	Email            string       `db:"email"`
	Essenswunsch     string       `db:"essenswunsch"`
	Dabei            sql.NullBool `db:"dabei"`
	Anreise          string       `db:"anreise"`
	EssenFr          bool         `db:"essen_fr"`
	EssenSa          bool         `db:"essen_sa"`
	EssenSo          bool         `db:"essen_so"`
	Unterkunft       string       `db:"unterkunft"`
	EssenMitbringsel string       `db:"essen_mitbringsel"`
	CreatedAt        int64        `db:"created_at"`
	UpdatedAt        int64        `db:"updated_at"`
}

const guestColumns = `id, name, email, essenswunsch, dabei, anreise, essen_fr, essen_sa, essen_so,
       unterkunft, essen_mitbringsel, created_at, updated_at`

// Open connects to the database, applies embedded migrations and returns the store.
// driver is "sqlite3" (dsn is a file path) or "postgres" (dsn is a connection URL).
func Open(ctx context.Context, driver, dsn string, log zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	switch driver {
	case "sqlite3":
		if !strings.HasPrefix(dsn, "file:") {
			dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dsn)
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Str("driver", driver).Msg("Guest database ready")
	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ListGuests returns all guests ordered by creation time.
func (s *Store) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var rows []guestRow
	query := `SELECT ` + guestColumns + ` FROM guest ORDER BY created_at, id`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		s.log.Error().Err(err).Msg("Store:ListGuests")
		return nil, fmt.Errorf("list guests: %w", err)
	}
	guests := make([]models.Guest, 0, len(rows))
	for _, r := range rows {
		guests = append(guests, r.toGuest())
	}
	return guests, nil
}

// GetGuest returns one guest by id.
func (s *Store) GetGuest(ctx context.Context, id string) (models.Guest, error) {
	var row guestRow
	query := s.db.Rebind(`SELECT ` + guestColumns + ` FROM guest WHERE id = ?`)
	err := s.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Guest{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Guest{}, fmt.Errorf("get guest: %w", err)
	}
	return row.toGuest(), nil
}

// CreateGuest inserts a new guest.
func (s *Store) CreateGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	guest, err := storage.PrepareCreate(guest, s.now)
	if err != nil {
		return models.Guest{}, err
	}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO guest (
		   id, name, email, essenswunsch, dabei, anreise, essen_fr, essen_sa, essen_so,
		   unterkunft, essen_mitbringsel, created_at, updated_at
		 ) VALUES (
		   :id, :name, :email, :essenswunsch, :dabei, :anreise, :essen_fr, :essen_sa, :essen_so,
		   :unterkunft, :essen_mitbringsel, :created_at, :updated_at
		 )`,
		rowFromGuest(guest),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("Store:CreateGuest")
		return models.Guest{}, fmt.Errorf("create guest: %w", err)
	}
	return guest, nil
}

// UpdateGuest replaces the editable fields of an existing guest.
func (s *Store) UpdateGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	existing, err := s.GetGuest(ctx, guest.ID)
	if err != nil {
		return models.Guest{}, err
	}
	guest, err = storage.PrepareUpdate(existing, guest, s.now)
	if err != nil {
		return models.Guest{}, err
	}
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE guest SET
		   name = :name,
		   email = :email,
		   essenswunsch = :essenswunsch,
		   dabei = :dabei,
		   anreise = :anreise,
		   essen_fr = :essen_fr,
		   essen_sa = :essen_sa,
		   essen_so = :essen_so,
		   unterkunft = :unterkunft,
		   essen_mitbringsel = :essen_mitbringsel,
		   updated_at = :updated_at
		 WHERE id = :id`,
		rowFromGuest(guest),
	)
	if err != nil {
		s.log.Error().Err(err).Str("id", guest.ID).Msg("Store:UpdateGuest")
		return models.Guest{}, fmt.Errorf("update guest: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Guest{}, storage.ErrNotFound
	}
	return guest, nil
}

// DeleteGuest removes a guest permanently.
func (s *Store) DeleteGuest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM guest WHERE id = ?`), id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("Store:DeleteGuest")
		return fmt.Errorf("delete guest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func rowFromGuest(g models.Guest) guestRow {
	row := guestRow{
		ID:               g.ID,
		Name:             g.Name,
		Email:            g.Email,
		Essenswunsch:     string(g.Essenswunsch),
		Anreise:          string(g.Anreise),
		EssenFr:          g.EssenFr,
		EssenSa:          g.EssenSa,
		EssenSo:          g.EssenSo,
		Unterkunft:       string(g.Unterkunft),
		EssenMitbringsel: g.EssenMitbringsel,
		CreatedAt:        g.CreatedAt.UTC().UnixMilli(),
		UpdatedAt:        g.UpdatedAt.UTC().UnixMilli(),
	}
	if g.Dabei != nil {
		row.Dabei = sql.NullBool{Bool: *g.Dabei, Valid: true}
	}
	return row
}

func (r guestRow) toGuest() models.Guest {
	g := models.Guest{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Essenswunsch:     models.Essenswunsch(r.Essenswunsch),
		Anreise:          models.Anreise(r.Anreise),
		EssenFr:          r.EssenFr,
		EssenSa:          r.EssenSa,
		EssenSo:          r.EssenSo,
		Unterkunft:       models.Unterkunft(r.Unterkunft),
		EssenMitbringsel: r.EssenMitbringsel,
		CreatedAt:        time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:        time.UnixMilli(r.UpdatedAt).UTC(),
	}
	if r.Dabei.Valid {
		v := r.Dabei.Bool
		g.Dabei = &v
	}
	return g
}
