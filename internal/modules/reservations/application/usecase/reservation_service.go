package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/auth"
)

// maxCodeAttempts bounds confirmation code generation per Create call.
const maxCodeAttempts = 5

var errCodeSpaceExhausted = errors.New("could not allocate a unique confirmation code")

// ServiceOptions configures a ReservationService. Zero values fall back to defaults.
type ServiceOptions struct {
	SlotCapacity    int
	EnforceCapacity bool
	Location        *time.Location
	Now             func() time.Time
	NewID           func() string
	Codes           domain.CodeGenerator
	Events          port.EventPublisher
}

// ReservationService validates and applies reservation operations against the store.
type ReservationService struct {
	store    port.ReservationStore
	events   port.EventPublisher
	codes    domain.CodeGenerator
	now      func() time.Time
	newID    func() string
	loc      *time.Location
	capacity int
	enforce  bool
}

func NewReservationService(store port.ReservationStore, opts ServiceOptions) *ReservationService {
	svc := &ReservationService{
		store:    store,
		events:   opts.Events,
		codes:    opts.Codes,
		now:      opts.Now,
		newID:    opts.NewID,
		loc:      opts.Location,
		capacity: opts.SlotCapacity,
		enforce:  opts.EnforceCapacity,
	}
	if svc.events == nil {
		svc.events = port.NopPublisher{}
	}
	if svc.codes == nil {
		svc.codes = domain.RandomCodeGenerator{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	return svc
}

// Location is the restaurant time zone used for calendar-day rules.
func (s *ReservationService) Location() *time.Location { return s.loc }

// Create validates cmd, allocates a confirmation code and persists a pending reservation.
// Authenticated callers become the owner.
func (s *ReservationService) Create(ctx context.Context, identity auth.Identity, cmd domain.CreateReservationCommand) (*domain.Reservation, error) {
	now := s.now()
	valid, err := cmd.Validate(now.In(s.loc))
	if err != nil {
		return nil, err
	}

	owner := ""
	if identity.Authenticated() {
		owner = identity.UserID
	}
	capacity := s.slotCapacity()

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, internalError(ctx, "generate confirmation code", err)
		}
		exists, err := s.store.CodeExists(ctx, code)
		if err != nil {
			return nil, internalError(ctx, "check confirmation code", err)
		}
		if exists {
			slog.Debug("reservation code collision", slog.Int("attempt", attempt))
			continue
		}

		reservation := domain.NewReservation(valid, s.newID(), code, owner, now)
		err = s.store.Create(ctx, reservation, capacity)
		switch {
		case err == nil:
			slog.Info("reservation created",
				slog.String("id", reservation.ID),
				slog.String("confirmationCode", reservation.ConfirmationCode),
				slog.String("date", reservation.Date),
				slog.String("time", reservation.Time),
				slog.Int("partySize", reservation.PartySize),
			)
			s.publish(ctx, port.ActionCreated, *reservation, identity)
			return reservation, nil
		case errors.Is(err, port.ErrDuplicateCode):
			slog.Debug("reservation code taken on insert", slog.Int("attempt", attempt))
			continue
		case errors.Is(err, domain.ErrSlotFull):
			slog.Info("reservation rejected: slot full", slog.String("date", valid.Date), slog.String("time", valid.Time))
			return nil, err
		default:
			return nil, internalError(ctx, "create reservation", err)
		}
	}
	return nil, internalError(ctx, "create reservation", errCodeSpaceExhausted)
}

// List returns reservations matching query. Non-admin callers only ever see their own.
func (s *ReservationService) List(ctx context.Context, identity auth.Identity, query domain.ListReservationsQuery) ([]domain.Reservation, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	filter, err := query.Filter(s.loc)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		filter.OwnerID = identity.UserID
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, internalError(ctx, "list reservations", err)
	}
	return items, nil
}

// Get returns one reservation visible to the caller.
func (s *ReservationService) Get(ctx context.Context, identity auth.Identity, id string) (*domain.Reservation, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	reservation, err := s.store.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, s.storeError(ctx, "get reservation", err)
	}
	if !identity.IsAdmin() && !reservation.OwnedBy(identity.UserID) {
		return nil, domain.ErrForbidden
	}
	return reservation, nil
}

// Update applies a partial update. Every supplied field is validated before the store is
// touched and the status transition is checked inside the atomic mutation.
func (s *ReservationService) Update(ctx context.Context, identity auth.Identity, id string, cmd domain.UpdateReservationCommand) (*domain.Reservation, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	changes, err := cmd.Validate(s.loc)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if changes.Empty() {
		reservation, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, s.storeError(ctx, "get reservation", err)
		}
		if err := checkVersion(changes.Version, reservation.Version); err != nil {
			return nil, err
		}
		return reservation, nil
	}

	now := s.now()
	updated, err := s.store.Update(ctx, id, s.slotCapacity(), func(current *domain.Reservation) error {
		if err := checkVersion(changes.Version, current.Version); err != nil {
			return err
		}
		next, err := changes.Apply(*current, now)
		if err != nil {
			return err
		}
		*current = next
		return nil
	})
	if errors.Is(err, domain.ErrSlotFull) {
		slog.Info("reservation update rejected: slot full", slog.String("id", id))
		return nil, err
	}
	if err != nil {
		return nil, s.storeError(ctx, "update reservation", err)
	}

	slog.Info("reservation updated",
		slog.String("id", updated.ID),
		slog.String("status", string(updated.Status)),
		slog.Int64("version", updated.Version),
		slog.String("actor", identity.UserID),
	)
	s.publish(ctx, port.ActionUpdated, *updated, identity)
	return updated, nil
}

// Delete permanently removes a reservation. Unknown ids fail with domain.ErrNotFound.
func (s *ReservationService) Delete(ctx context.Context, identity auth.Identity, id string) (*domain.Reservation, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	removed, err := s.store.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, s.storeError(ctx, "delete reservation", err)
	}
	slog.Info("reservation deleted", slog.String("id", removed.ID), slog.String("actor", identity.UserID))
	s.publish(ctx, port.ActionDeleted, *removed, identity)
	return removed, nil
}

func (s *ReservationService) publish(ctx context.Context, action string, r domain.Reservation, actor auth.Identity) {
	event := port.ReservationEvent{Action: action, Reservation: r, Actor: actor.UserID, At: s.now().UTC()}
	if err := s.events.Publish(ctx, event); err != nil {
		slog.Warn("reservation event publish failed",
			slog.String("action", action),
			slog.String("id", r.ID),
			slog.Any("error", err),
		)
	}
}

// storeError passes domain errors through and hides everything else behind ErrInternal.
func (s *ReservationService) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrForbidden):
		return err
	default:
		return internalError(ctx, op, err)
	}
}

// slotCapacity is the per-slot cover limit handed to the store, 0 when not enforced.
func (s *ReservationService) slotCapacity() int {
	if !s.enforce {
		return 0
	}
	return s.capacity
}

func checkVersion(expected *int64, current int64) error {
	if expected != nil && *expected != current {
		return fmt.Errorf("%w: version %d is stale, current version is %d", domain.ErrConflict, *expected, current)
	}
	return nil
}

func internalError(ctx context.Context, op string, err error) error {
	slog.ErrorContext(ctx, "reservation operation failed", slog.String("op", op), slog.Any("error", err))
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s", domain.ErrInternal, op)
}

func requireAdmin(identity auth.Identity) error {
	if !identity.Authenticated() {
		return domain.ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
