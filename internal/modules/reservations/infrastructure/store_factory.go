package infrastructure

import (
	"context"
	"fmt"
	"io"
	"strings"

	"smartBite/internal/modules/reservations/application/port"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore builds the reservation store for driver. The closer releases the
// underlying connections.
func OpenStore(ctx context.Context, driver, dsn string) (port.ReservationStore, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case DriverPostgres:
		store, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case DriverSQLite:
		store, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
