package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reservations (
	id                TEXT PRIMARY KEY,
	confirmation_code TEXT NOT NULL UNIQUE,
	reservation_date  TEXT NOT NULL,
	slot_time         TEXT NOT NULL,
	slot_minutes      INTEGER NOT NULL,
	party_size        INTEGER NOT NULL CHECK (party_size BETWEEN 1 AND 20),
	customer_name     TEXT NOT NULL,
	customer_email    TEXT NOT NULL,
	customer_phone    TEXT NOT NULL,
	special_requests  TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL,
	owner_id          TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	version           INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS reservations_day_slot_idx ON reservations (reservation_date, slot_minutes);
CREATE INDEX IF NOT EXISTS reservations_owner_idx ON reservations (owner_id);
`

const sqliteColumns = `id, confirmation_code, reservation_date, slot_time, party_size,
	customer_name, customer_email, customer_phone, special_requests, status, owner_id,
	created_at, updated_at, version`

const sqliteHeldStatuses = `('PENDING', 'CONFIRMED', 'COMPLETED')`

// SQLiteStore persists reservations in a single-file SQLite database. Writes are
// serialized through one connection.
type SQLiteStore struct {
	db *sql.DB
}

var _ port.ReservationStore = (*SQLiteStore)(nil)

// OpenSQLite opens dsn with the pure-Go driver and migrates the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate reservations schema: %w", err)
	}
	slog.Info("sqlite reservation store ready", slog.String("dsn", dsn))
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, r *domain.Reservation, slotCapacity int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	if slotCapacity > 0 && r.Status.HoldsSlot() {
		if err := checkSQLiteSlot(ctx, tx, *r, slotCapacity); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservations (
			id, confirmation_code, reservation_date, slot_time, slot_minutes, party_size,
			customer_name, customer_email, customer_phone, special_requests, status, owner_id,
			created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.ConfirmationCode, r.Date, r.Time, r.SlotMinutes(), r.PartySize,
		r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.SpecialRequests, string(r.Status), r.OwnerID,
		formatTimestamp(r.CreatedAt), formatTimestamp(r.UpdatedAt), r.Version,
	)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed: reservations.confirmation_code"):
			return port.ErrDuplicateCode
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return domain.ErrConflict
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != domain.ReservationStatusUnknown {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Date != "" {
		where = append(where, "reservation_date = ?")
		args = append(args, filter.Date)
	}
	if filter.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	query := "SELECT " + sqliteColumns + " FROM reservations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY reservation_date, slot_minutes, created_at, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		r, err := scanSQLiteReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return scanSQLiteReservation(s.db.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM reservations WHERE id = ?", id))
}

func (s *SQLiteStore) Update(ctx context.Context, id string, slotCapacity int, mutate func(*domain.Reservation) error) (*domain.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	current, err := scanSQLiteReservation(tx.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM reservations WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	next := *current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.ConfirmationCode = current.ConfirmationCode
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	if slotCapacity > 0 && domain.MovesIntoSlot(*current, next) {
		if err := checkSQLiteSlot(ctx, tx, next, slotCapacity); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE reservations SET
			reservation_date = ?, slot_time = ?, slot_minutes = ?, party_size = ?,
			customer_name = ?, customer_email = ?, customer_phone = ?, special_requests = ?,
			status = ?, updated_at = ?, version = ?
		WHERE id = ?
	`,
		next.Date, next.Time, next.SlotMinutes(), next.PartySize,
		next.CustomerName, next.CustomerEmail, next.CustomerPhone, next.SpecialRequests,
		string(next.Status), formatTimestamp(next.UpdatedAt), next.Version, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return &next, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (*domain.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	removed, err := scanSQLiteReservation(tx.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM reservations WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return removed, nil
}

func (s *SQLiteStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE confirmation_code = ?)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmation code: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStore) Occupancy(ctx context.Context, date string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot_time, SUM(party_size) FROM reservations
		WHERE reservation_date = ? AND status IN `+sqliteHeldStatuses+`
		GROUP BY slot_time
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query occupancy: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			slot   string
			covers int
		)
		if err := rows.Scan(&slot, &covers); err != nil {
			return nil, fmt.Errorf("scan occupancy: %w", err)
		}
		out[slot] = covers
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupancy: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		r                domain.Reservation
		status           string
		created, updated string
	)
	err := row.Scan(
		&r.ID, &r.ConfirmationCode, &r.Date, &r.Time, &r.PartySize,
		&r.CustomerName, &r.CustomerEmail, &r.CustomerPhone, &r.SpecialRequests, &status, &r.OwnerID,
		&created, &updated, &r.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	r.Status = domain.ReservationStatus(status)
	if r.CreatedAt, err = time.Parse(sqliteTimestampLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(sqliteTimestampLayout, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &r, nil
}

// sqliteTimestampLayout is fixed width so text ordering matches time ordering.
const sqliteTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(sqliteTimestampLayout)
}

// checkSQLiteSlot fails with domain.ErrSlotFull when the covers held by other
// reservations in r's slot plus r.PartySize exceed capacity. The single connection
// serialises writers, so no extra lock is taken.
func checkSQLiteSlot(ctx context.Context, tx *sql.Tx, r domain.Reservation, capacity int) error {
	var held int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(party_size), 0) FROM reservations
		WHERE reservation_date = ? AND slot_time = ? AND id <> ? AND status IN `+sqliteHeldStatuses,
		r.Date, r.Time, r.ID,
	).Scan(&held)
	if err != nil {
		return fmt.Errorf("count slot covers: %w", err)
	}
	if held+r.PartySize > capacity {
		return domain.ErrSlotFull
	}
	return nil
}
