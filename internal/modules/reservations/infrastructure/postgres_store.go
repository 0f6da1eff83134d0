package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
)

const pgUniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS reservations (
	id               TEXT PRIMARY KEY,
	confirmation_code TEXT NOT NULL,
	reservation_date DATE NOT NULL,
	slot_time        TEXT NOT NULL,
	slot_minutes     INTEGER NOT NULL,
	party_size       INTEGER NOT NULL CHECK (party_size BETWEEN 1 AND 20),
	customer_name    TEXT NOT NULL,
	customer_email   TEXT NOT NULL,
	customer_phone   TEXT NOT NULL,
	special_requests TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	owner_id         TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	version          BIGINT NOT NULL DEFAULT 1
);
CREATE UNIQUE INDEX IF NOT EXISTS reservations_confirmation_code_key ON reservations (confirmation_code);
CREATE INDEX IF NOT EXISTS reservations_day_slot_idx ON reservations (reservation_date, slot_minutes);
CREATE INDEX IF NOT EXISTS reservations_owner_idx ON reservations (owner_id);
`

const pgColumns = `id, confirmation_code, to_char(reservation_date, 'YYYY-MM-DD'), slot_time, party_size,
	customer_name, customer_email, customer_phone, special_requests, status, owner_id,
	created_at, updated_at, version`

// heldStatuses are the statuses counted against slot capacity.
var heldStatuses = []string{
	string(domain.ReservationStatusPending),
	string(domain.ReservationStatusConfirmed),
	string(domain.ReservationStatusCompleted),
}

// PostgresStore persists reservations through a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ port.ReservationStore = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects, pings and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("postgres reservation store ready")
	return store, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate reservations schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, r *domain.Reservation, slotCapacity int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback(ctx)

	if slotCapacity > 0 && r.Status.HoldsSlot() {
		if err := reserveSlot(ctx, tx, *r, slotCapacity); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (
			id, confirmation_code, reservation_date, slot_time, slot_minutes, party_size,
			customer_name, customer_email, customer_phone, special_requests, status, owner_id,
			created_at, updated_at, version
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		r.ID, r.ConfirmationCode, r.Date, r.Time, r.SlotMinutes(), r.PartySize,
		r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.SpecialRequests, string(r.Status), r.OwnerID,
		r.CreatedAt, r.UpdatedAt, r.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "confirmation_code") {
				return port.ErrDuplicateCode
			}
			return domain.ErrConflict
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != domain.ReservationStatusUnknown {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, "reservation_date = $"+strconv.Itoa(len(args))+"::date")
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, "owner_id = $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + pgColumns + " FROM reservations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY reservation_date, slot_minutes, created_at, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
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

func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+pgColumns+" FROM reservations WHERE id = $1", id)
	return scanReservation(row)
}

func (s *PostgresStore) Update(ctx context.Context, id string, slotCapacity int, mutate func(*domain.Reservation) error) (*domain.Reservation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanReservation(tx.QueryRow(ctx, "SELECT "+pgColumns+" FROM reservations WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	next := *current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	if slotCapacity > 0 && domain.MovesIntoSlot(*current, next) {
		if err := reserveSlot(ctx, tx, next, slotCapacity); err != nil {
			return nil, err
		}
	}

	err = tx.QueryRow(ctx, `
		UPDATE reservations SET
			reservation_date = $2::date, slot_time = $3, slot_minutes = $4, party_size = $5,
			customer_name = $6, customer_email = $7, customer_phone = $8, special_requests = $9,
			status = $10, updated_at = $11, version = version + 1
		WHERE id = $1
		RETURNING version
	`,
		id, next.Date, next.Time, next.SlotMinutes(), next.PartySize,
		next.CustomerName, next.CustomerEmail, next.CustomerPhone, next.SpecialRequests,
		string(next.Status), next.UpdatedAt,
	).Scan(&next.Version)
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	next.ID = current.ID
	next.ConfirmationCode = current.ConfirmationCode
	next.CreatedAt = current.CreatedAt
	return &next, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (*domain.Reservation, error) {
	row := s.pool.QueryRow(ctx, "DELETE FROM reservations WHERE id = $1 RETURNING "+pgColumns, id)
	return scanReservation(row)
}

func (s *PostgresStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE confirmation_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmation code: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Occupancy(ctx context.Context, date string) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT slot_time, SUM(party_size) FROM reservations
		WHERE reservation_date = $1::date AND status = ANY($2)
		GROUP BY slot_time
	`, date, heldStatuses)
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

// reserveSlot takes the slot's advisory lock and fails with domain.ErrSlotFull when the
// covers held by other reservations plus r.PartySize exceed capacity.
func reserveSlot(ctx context.Context, tx pgx.Tx, r domain.Reservation, capacity int) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, r.Date+"|"+r.Time); err != nil {
		return fmt.Errorf("lock slot: %w", err)
	}
	var held int
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(party_size), 0) FROM reservations
		WHERE reservation_date = $1::date AND slot_time = $2 AND status = ANY($3) AND id <> $4
	`, r.Date, r.Time, heldStatuses, r.ID).Scan(&held)
	if err != nil {
		return fmt.Errorf("count slot covers: %w", err)
	}
	if held+r.PartySize > capacity {
		return domain.ErrSlotFull
	}
	return nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		r      domain.Reservation
		status string
	)
	err := row.Scan(
		&r.ID, &r.ConfirmationCode, &r.Date, &r.Time, &r.PartySize,
		&r.CustomerName, &r.CustomerEmail, &r.CustomerPhone, &r.SpecialRequests, &status, &r.OwnerID,
		&r.CreatedAt, &r.UpdatedAt, &r.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	r.Status = domain.ReservationStatus(status)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}
