package infrastructure

import (
	"context"
	"sync"

	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
)

// MemoryStore keeps reservations in process memory. Readers get copies so callers can
// never observe a half-applied update.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]domain.Reservation
	codes map[string]string
}

var _ port.ReservationStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:  make(map[string]domain.Reservation),
		codes: make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, r *domain.Reservation, slotCapacity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[r.ConfirmationCode]; taken {
		return port.ErrDuplicateCode
	}
	if _, exists := s.byID[r.ID]; exists {
		return domain.ErrConflict
	}
	if slotCapacity > 0 && r.Status.HoldsSlot() {
		if s.heldByOthersLocked(*r)+r.PartySize > slotCapacity {
			return domain.ErrSlotFull
		}
	}
	s.byID[r.ID] = *r
	s.codes[r.ConfirmationCode] = r.ID
	return nil
}

func (s *MemoryStore) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]domain.Reservation, 0, len(s.byID))
	for _, r := range s.byID {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	domain.SortReservations(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, slotCapacity int, mutate func(*domain.Reservation) error) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	// identity fields are immutable
	next.ID = current.ID
	next.ConfirmationCode = current.ConfirmationCode
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	if slotCapacity > 0 && domain.MovesIntoSlot(current, next) {
		if s.heldByOthersLocked(next)+next.PartySize > slotCapacity {
			return nil, domain.ErrSlotFull
		}
	}
	s.byID[id] = next
	return &next, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.codes, r.ConfirmationCode)
	return &r, nil
}

func (s *MemoryStore) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codes[code]
	return ok, nil
}

func (s *MemoryStore) Occupancy(ctx context.Context, date string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupancyLocked(date), nil
}

func (s *MemoryStore) occupancyLocked(date string) map[string]int {
	out := make(map[string]int)
	for _, r := range s.byID {
		if r.Date == date && r.Status.HoldsSlot() {
			out[r.Time] += r.PartySize
		}
	}
	return out
}

// heldByOthersLocked sums the covers held in r's slot by every reservation except r.
func (s *MemoryStore) heldByOthersLocked(r domain.Reservation) int {
	held := 0
	for id, other := range s.byID {
		if id != r.ID && other.Date == r.Date && other.Time == r.Time && other.Status.HoldsSlot() {
			held += other.PartySize
		}
	}
	return held
}

// Len reports how many reservations are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
