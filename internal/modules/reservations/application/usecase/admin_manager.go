package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/auth"
)

// DefaultDeletionTTL is how long a deletion confirmation token stays valid.
const DefaultDeletionTTL = 2 * time.Minute

// DeletionTicket is handed to the admin after a delete request and must be echoed back
// to confirm the deletion.
type DeletionTicket struct {
	Token         string    `json:"token"`
	ReservationID string    `json:"reservationId"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type pendingDeletion struct {
	reservationID string
	requestedBy   string
	expiresAt     time.Time
}

// AdminManager is the administrator view over the reservation store.
type AdminManager struct {
	service *ReservationService
	store   port.ReservationStore
	now     func() time.Time
	ttl     time.Duration

	mu      sync.Mutex
	pending map[string]pendingDeletion
}

func NewAdminManager(service *ReservationService, store port.ReservationStore) *AdminManager {
	return &AdminManager{
		service: service,
		store:   store,
		now:     service.now,
		ttl:     DefaultDeletionTTL,
		pending: make(map[string]pendingDeletion),
	}
}

// WithDeletionTTL overrides the confirmation token lifetime.
func (m *AdminManager) WithDeletionTTL(ttl time.Duration) *AdminManager {
	if ttl > 0 {
		m.ttl = ttl
	}
	return m
}

// Search applies the conjunctive search, status and date filters to every reservation.
func (m *AdminManager) Search(ctx context.Context, identity auth.Identity, filter domain.AdminFilter) ([]domain.Reservation, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	criteria, err := filter.Criteria(m.service.loc)
	if err != nil {
		return nil, err
	}
	items, err := m.store.List(ctx, domain.ReservationFilter{Status: criteria.Status, Date: criteria.Date})
	if err != nil {
		return nil, internalError(ctx, "search reservations", err)
	}
	matched := make([]domain.Reservation, 0, len(items))
	for _, item := range items {
		if criteria.Matches(item) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// ChangeStatus moves a reservation to status under the transition policy.
func (m *AdminManager) ChangeStatus(ctx context.Context, identity auth.Identity, id, status string) (*domain.Reservation, error) {
	if strings.TrimSpace(status) == "" {
		if err := requireAdmin(identity); err != nil {
			return nil, err
		}
		return nil, domain.Invalid("status", "status is required")
	}
	return m.service.Update(ctx, identity, id, domain.UpdateReservationCommand{Status: &status})
}

// Transitions lists the statuses the dashboard may offer for the reservation.
func (m *AdminManager) Transitions(ctx context.Context, identity auth.Identity, id string) ([]domain.ReservationStatus, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	reservation, err := m.store.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, m.service.storeError(ctx, "get reservation", err)
	}
	return domain.AllowedTransitions(reservation.Status), nil
}

// RequestDeletion is the first step of the two-step delete. The returned token is single
// use and bound to the requesting admin.
func (m *AdminManager) RequestDeletion(ctx context.Context, identity auth.Identity, id string) (DeletionTicket, error) {
	if err := requireAdmin(identity); err != nil {
		return DeletionTicket{}, err
	}
	reservation, err := m.store.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return DeletionTicket{}, m.service.storeError(ctx, "get reservation", err)
	}

	now := m.now()
	ticket := DeletionTicket{
		Token:         uuid.NewString(),
		ReservationID: reservation.ID,
		ExpiresAt:     now.Add(m.ttl).UTC(),
	}

	m.mu.Lock()
	m.pruneLocked(now)
	m.pending[ticket.Token] = pendingDeletion{
		reservationID: reservation.ID,
		requestedBy:   identity.UserID,
		expiresAt:     ticket.ExpiresAt,
	}
	m.mu.Unlock()

	slog.Info("reservation deletion requested", slog.String("id", reservation.ID), slog.String("actor", identity.UserID))
	return ticket, nil
}

// ConfirmDeletion consumes token and deletes the reservation it was issued for.
func (m *AdminManager) ConfirmDeletion(ctx context.Context, identity auth.Identity, token string) (*domain.Reservation, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.Invalid("token", "confirmation token is required")
	}

	now := m.now()
	m.mu.Lock()
	entry, ok := m.pending[token]
	if ok && entry.requestedBy == identity.UserID {
		delete(m.pending, token)
	}
	m.pruneLocked(now)
	m.mu.Unlock()

	switch {
	case !ok:
		return nil, domain.Invalid("token", "confirmation token is unknown or already used")
	case entry.requestedBy != identity.UserID:
		return nil, domain.Invalid("token", "confirmation token was issued to another administrator")
	case now.After(entry.expiresAt):
		return nil, domain.Invalid("token", "confirmation token has expired")
	}
	return m.service.Delete(ctx, identity, entry.reservationID)
}

func (m *AdminManager) pruneLocked(now time.Time) {
	for token, entry := range m.pending {
		if now.After(entry.expiresAt) {
			delete(m.pending, token)
		}
	}
}

// Summary aggregates one day of reservations for the dashboard.
type Summary struct {
	Date        string                           `json:"date"`
	Total       int                              `json:"total"`
	ByStatus    map[domain.ReservationStatus]int `json:"byStatus"`
	TotalCovers int                              `json:"totalCovers"`
	Upcoming    int                              `json:"upcoming"`
}

// Summary counts the reservations of date (today when empty). Covers only include
// reservations that hold their slot; upcoming ones are pending or confirmed and not yet
// past their slot time.
func (m *AdminManager) Summary(ctx context.Context, identity auth.Identity, date string) (Summary, error) {
	if err := requireAdmin(identity); err != nil {
		return Summary{}, err
	}
	loc := m.service.loc
	now := m.now().In(loc)
	day := domain.DayOf(now, loc)
	if strings.TrimSpace(date) != "" {
		parsed, err := domain.ParseDate(date, loc)
		if err != nil {
			return Summary{}, domain.Invalid("date", "%s", err.Error())
		}
		day = parsed
	}
	dayLabel := day.Format(domain.DateLayout)

	items, err := m.store.List(ctx, domain.ReservationFilter{Date: dayLabel})
	if err != nil {
		return Summary{}, internalError(ctx, "summarize reservations", err)
	}

	summary := Summary{Date: dayLabel, Total: len(items), ByStatus: make(map[domain.ReservationStatus]int)}
	for _, status := range domain.ReservationStatuses() {
		summary.ByStatus[status] = 0
	}
	for _, item := range items {
		summary.ByStatus[item.Status]++
		if item.Status.HoldsSlot() {
			summary.TotalCovers += item.PartySize
		}
		if isUpcoming(item, day, now) {
			summary.Upcoming++
		}
	}
	return summary, nil
}

func isUpcoming(r domain.Reservation, day, now time.Time) bool {
	if r.Status != domain.ReservationStatusPending && r.Status != domain.ReservationStatusConfirmed {
		return false
	}
	minutes := r.SlotMinutes()
	if minutes < 0 {
		return false
	}
	at := day.Add(time.Duration(minutes) * time.Minute)
	return !at.Before(now)
}
