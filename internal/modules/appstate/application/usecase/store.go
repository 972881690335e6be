package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"restauReserva/internal/modules/appstate/application/port"
	"restauReserva/internal/modules/appstate/domain"
	reservationdomain "restauReserva/internal/modules/reservations/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/identity"
	"restauReserva/internal/shared/normalization"
)

// ErrAmbiguousLookup is recorded when a dni+code search matches more than one reservation.
var ErrAmbiguousLookup = errors.New("lookup matched more than one reservation")

// Store is the in-process cache of restaurants and reservations and the only component
// that mutates it. Every write goes to the server first; the cache follows the answer.
// Loads replace whole collections and concurrent callers resolve last-writer-wins.
type Store struct {
	restaurantSvc  port.RestaurantService
	reservationSvc port.ReservationService
	notifier       port.ChangeNotifier
	recorder       port.OperationRecorder
	policies       map[Operation]Policy
	now            func() time.Time

	mu           sync.RWMutex
	restaurants  []restaurantdomain.Restaurant
	reservations []reservationdomain.Reservation
	filter       restaurantdomain.Filter
	loadedOnce   bool
}

func NewStore(restaurants port.RestaurantService, reservations port.ReservationService, opts ...Option) *Store {
	s := &Store{
		restaurantSvc:  restaurants,
		reservationSvc: reservations,
		policies:       DefaultPolicies(),
		now:            time.Now,
		restaurants:    []restaurantdomain.Restaurant{},
		reservations:   []reservationdomain.Reservation{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the unfiltered restaurant list once. Reservations stay empty until requested.
func (s *Store) Initialize(ctx context.Context) error {
	return s.LoadRestaurants(ctx, restaurantdomain.Filter{})
}

// LoadRestaurants replaces the restaurant collection with the server answer for filter.
func (s *Store) LoadRestaurants(ctx context.Context, filter restaurantdomain.Filter) error {
	started := s.now()
	filter = filter.Normalize()
	items, err := s.restaurantSvc.List(ctx, filter)
	if err != nil {
		return s.settle(ctx, OpLoadRestaurants, started, err)
	}

	s.mu.Lock()
	s.restaurants = restaurantdomain.CloneRestaurants(items)
	s.filter = filter
	size := len(s.restaurants)
	s.mu.Unlock()

	s.recordSize(normalization.EntityRestaurants, size)
	msg := domain.NewMessage(normalization.EntityRestaurants, domain.ActionLoaded, "", nil, s.now())
	msg.Metadata = map[string]string{"count": strconv.Itoa(size), "city": filter.City, "letter": filter.Letter}
	s.publish(ctx, msg)
	return s.settle(ctx, OpLoadRestaurants, started, nil)
}

// AddRestaurant creates a restaurant and appends the server copy. Under the default
// policy a failure returns (nil, nil) and leaves the collection untouched.
func (s *Store) AddRestaurant(ctx context.Context, input restaurantdomain.Input) (*restaurantdomain.Restaurant, error) {
	started := s.now()
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, s.settle(ctx, OpAddRestaurant, started, err)
	}
	created, err := s.restaurantSvc.Create(ctx, input)
	if err != nil {
		return nil, s.settle(ctx, OpAddRestaurant, started, err)
	}

	s.mu.Lock()
	s.restaurants = append(s.restaurants, *created)
	size := len(s.restaurants)
	s.mu.Unlock()

	s.recordSize(normalization.EntityRestaurants, size)
	s.publish(ctx, domain.NewMessage(normalization.EntityRestaurants, domain.ActionCreated, created.ID.String(), *created, s.now()))
	out := *created
	return &out, s.settle(ctx, OpAddRestaurant, started, nil)
}

// UpdateRestaurant replaces the matching entry in place with the server answer.
func (s *Store) UpdateRestaurant(ctx context.Context, id identity.ID, input restaurantdomain.Input) (*restaurantdomain.Restaurant, error) {
	started := s.now()
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, s.settle(ctx, OpUpdateRestaurant, started, err)
	}
	updated, err := s.restaurantSvc.Update(ctx, id, input)
	if err != nil {
		return nil, s.settle(ctx, OpUpdateRestaurant, started, err)
	}

	s.mu.Lock()
	for i := range s.restaurants {
		if s.restaurants[i].ID == id {
			s.restaurants[i] = *updated
		}
	}
	s.mu.Unlock()

	s.publish(ctx, domain.NewMessage(normalization.EntityRestaurants, domain.ActionUpdated, id.String(), *updated, s.now()))
	out := *updated
	return &out, s.settle(ctx, OpUpdateRestaurant, started, nil)
}

// DeleteRestaurant removes the restaurant and every cached reservation that references it.
// deleted reports whether the server accepted the delete; it is false when a failure was
// swallowed, whether or not the restaurant was cached.
func (s *Store) DeleteRestaurant(ctx context.Context, id identity.ID) (deleted bool, err error) {
	started := s.now()
	if err := s.restaurantSvc.Delete(ctx, id); err != nil {
		return false, s.settle(ctx, OpDeleteRestaurant, started, err)
	}

	s.mu.Lock()
	s.restaurants = filterRestaurants(s.restaurants, func(r restaurantdomain.Restaurant) bool { return r.ID != id })
	before := len(s.reservations)
	s.reservations = filterReservations(s.reservations, func(r reservationdomain.Reservation) bool { return !r.BelongsTo(id) })
	cascaded := before - len(s.reservations)
	restaurantCount, reservationCount := len(s.restaurants), len(s.reservations)
	s.mu.Unlock()

	s.recordSize(normalization.EntityRestaurants, restaurantCount)
	s.recordSize(normalization.EntityReservations, reservationCount)
	msg := domain.NewMessage(normalization.EntityRestaurants, domain.ActionDeleted, id.String(), nil, s.now())
	msg.Metadata = map[string]string{"reservationsRemoved": strconv.Itoa(cascaded)}
	s.publish(ctx, msg)
	return true, s.settle(ctx, OpDeleteRestaurant, started, nil)
}

// LoadReservations replaces the reservation collection with the full server list.
func (s *Store) LoadReservations(ctx context.Context) error {
	started := s.now()
	return s.settle(ctx, OpLoadReservations, started, s.reloadReservations(ctx))
}

// CreateReservation sends the reservation, then reloads the whole collection so the
// server-assigned id and code show up in the cache. The creation answer is returned as is.
func (s *Store) CreateReservation(ctx context.Context, cmd reservationdomain.CreateReservationCommand) (*reservationdomain.Reservation, error) {
	started := s.now()
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, s.settle(ctx, OpCreateReservation, started, err)
	}
	created, err := s.reservationSvc.Create(ctx, cmd)
	if err != nil {
		return nil, s.settle(ctx, OpCreateReservation, started, err)
	}

	s.publish(ctx, domain.NewMessage(normalization.EntityReservations, domain.ActionCreated, created.ID.String(), created.Clone(), s.now()))
	if err := s.reloadReservations(ctx); err != nil {
		slog.Warn("reservation reload after create failed", slog.String("reservationId", created.ID.String()), slog.Any("error", err))
	}
	out := created.Clone()
	return &out, s.settle(ctx, OpCreateReservation, started, nil)
}

// FindReservationByDniAndCode returns the reservation only when exactly one matches.
// Not found, ambiguous and failed lookups all come back as nil.
func (s *Store) FindReservationByDniAndCode(ctx context.Context, lookup reservationdomain.Lookup) (*reservationdomain.Reservation, error) {
	started := s.now()
	if err := lookup.Validate(); err != nil {
		return nil, s.settle(ctx, OpFindReservation, started, err)
	}
	items, err := s.reservationSvc.FindByDniAndCode(ctx, lookup.Normalize())
	if err != nil {
		return nil, s.settle(ctx, OpFindReservation, started, err)
	}
	switch len(items) {
	case 0:
		slog.Debug("reservation lookup found nothing")
		return nil, s.settle(ctx, OpFindReservation, started, nil)
	case 1:
		out := items[0].Clone()
		return &out, s.settle(ctx, OpFindReservation, started, nil)
	default:
		return nil, s.settle(ctx, OpFindReservation, started, ErrAmbiguousLookup)
	}
}

// UpdateReservationDate moves a reservation and reloads the collection. If the reload
// fails the server answer is patched into the cache instead.
func (s *Store) UpdateReservationDate(ctx context.Context, id identity.ID, date string) (*reservationdomain.Reservation, error) {
	started := s.now()
	cmd := reservationdomain.UpdateDateCommand{Date: strings.TrimSpace(date)}
	if err := cmd.Validate(); err != nil {
		return nil, s.settle(ctx, OpUpdateReservationDate, started, err)
	}
	updated, err := s.reservationSvc.UpdateDate(ctx, id, cmd)
	if err != nil {
		return nil, s.settle(ctx, OpUpdateReservationDate, started, err)
	}

	s.publish(ctx, domain.NewMessage(normalization.EntityReservations, domain.ActionUpdated, id.String(), updated.Clone(), s.now()))
	if err := s.reloadReservations(ctx); err != nil {
		slog.Warn("reservation reload after update failed", slog.String("reservationId", id.String()), slog.Any("error", err))
		s.patchReservation(id, *updated)
	}
	out := updated.Clone()
	return &out, s.settle(ctx, OpUpdateReservationDate, started, nil)
}

// DeleteReservation deletes on the server and drops the entry locally without a reload.
func (s *Store) DeleteReservation(ctx context.Context, id identity.ID) error {
	started := s.now()
	if err := s.reservationSvc.Delete(ctx, id); err != nil {
		return s.settle(ctx, OpDeleteReservation, started, err)
	}

	s.mu.Lock()
	s.reservations = filterReservations(s.reservations, func(r reservationdomain.Reservation) bool { return r.ID != id })
	size := len(s.reservations)
	s.mu.Unlock()

	s.recordSize(normalization.EntityReservations, size)
	s.publish(ctx, domain.NewMessage(normalization.EntityReservations, domain.ActionDeleted, id.String(), nil, s.now()))
	return s.settle(ctx, OpDeleteReservation, started, nil)
}

func (s *Store) reloadReservations(ctx context.Context) error {
	items, err := s.reservationSvc.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.reservations = reservationdomain.CloneReservations(items)
	s.loadedOnce = true
	size := len(s.reservations)
	s.mu.Unlock()
	s.recordSize(normalization.EntityReservations, size)
	msg := domain.NewMessage(normalization.EntityReservations, domain.ActionLoaded, "", nil, s.now())
	msg.Metadata = map[string]string{"count": strconv.Itoa(size)}
	s.publish(ctx, msg)
	return nil
}

func (s *Store) patchReservation(id identity.ID, updated reservationdomain.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations[i] = updated.Clone()
		}
	}
}

// Restaurants returns a copy of the cached restaurants.
func (s *Store) Restaurants() []restaurantdomain.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return restaurantdomain.CloneRestaurants(s.restaurants)
}

// Reservations returns a copy of the cached reservations.
func (s *Store) Reservations() []reservationdomain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reservationdomain.CloneReservations(s.reservations)
}

// Restaurant looks up a cached restaurant by id.
func (s *Store) Restaurant(id identity.ID) (restaurantdomain.Restaurant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return restaurantdomain.Restaurant{}, false
}

// ReservationsLoaded reports whether the reservation collection was fetched at least once.
func (s *Store) ReservationsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedOnce
}

// ActiveFilter is the filter of the last successful restaurant load.
func (s *Store) ActiveFilter() restaurantdomain.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{
		Restaurants:  restaurantdomain.CloneRestaurants(s.restaurants),
		Reservations: reservationdomain.CloneReservations(s.reservations),
		ActiveFilter: s.filter,
	}
}

// ReservationsFor narrows the cached reservations by restaurant and date; a blank
// argument does not narrow.
func (s *Store) ReservationsFor(restaurantID identity.ID, date string) []reservationdomain.Reservation {
	date = strings.TrimSpace(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reservationdomain.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if !restaurantID.IsZero() && r.RestaurantID != restaurantID {
			continue
		}
		if date != "" && r.Date != date {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// RestaurantsMatching applies filter to the cached restaurants without a network call.
func (s *Store) RestaurantsMatching(filter restaurantdomain.Filter) []restaurantdomain.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]restaurantdomain.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Cities returns the sorted distinct cities of the cached restaurants.
func (s *Store) Cities() []string {
	s.mu.RLock()
	seen := make(map[string]struct{}, len(s.restaurants))
	for _, r := range s.restaurants {
		if city := strings.TrimSpace(r.City); city != "" {
			seen[city] = struct{}{}
		}
	}
	s.mu.RUnlock()
	cities := make([]string, 0, len(seen))
	for city := range seen {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func (s *Store) publish(ctx context.Context, msg *domain.Message) {
	if s.notifier == nil || msg == nil {
		return
	}
	s.notifier.Broadcast(ctx, msg)
}

func (s *Store) recordSize(entity string, size int) {
	if s.recorder == nil {
		return
	}
	s.recorder.SetCacheSize(entity, size)
}

func filterRestaurants(items []restaurantdomain.Restaurant, keep func(restaurantdomain.Restaurant) bool) []restaurantdomain.Restaurant {
	out := make([]restaurantdomain.Restaurant, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func filterReservations(items []reservationdomain.Reservation, keep func(reservationdomain.Reservation) bool) []reservationdomain.Reservation {
	out := make([]reservationdomain.Reservation, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
