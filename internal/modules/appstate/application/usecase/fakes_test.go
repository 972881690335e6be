package usecase

import (
	"context"
	"sync"
	"time"

	"restauReserva/internal/modules/appstate/domain"
	reservationdomain "restauReserva/internal/modules/reservations/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/identity"
)

type fakeRestaurantService struct {
	mu        sync.Mutex
	listFn    func(restaurantdomain.Filter) ([]restaurantdomain.Restaurant, error)
	createFn  func(restaurantdomain.Input) (*restaurantdomain.Restaurant, error)
	updateFn  func(identity.ID, restaurantdomain.Input) (*restaurantdomain.Restaurant, error)
	deleteErr error
	listCalls int
	deleted   []identity.ID
}

func (f *fakeRestaurantService) List(_ context.Context, filter restaurantdomain.Filter) ([]restaurantdomain.Restaurant, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.listFn == nil {
		return []restaurantdomain.Restaurant{}, nil
	}
	return f.listFn(filter)
}

func (f *fakeRestaurantService) Create(_ context.Context, input restaurantdomain.Input) (*restaurantdomain.Restaurant, error) {
	return f.createFn(input)
}

func (f *fakeRestaurantService) Update(_ context.Context, id identity.ID, input restaurantdomain.Input) (*restaurantdomain.Restaurant, error) {
	return f.updateFn(id, input)
}

func (f *fakeRestaurantService) Delete(_ context.Context, id identity.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReservationService struct {
	mu        sync.Mutex
	items     []reservationdomain.Reservation
	listErr   error
	createFn  func(reservationdomain.CreateReservationCommand) (*reservationdomain.Reservation, error)
	findFn    func(reservationdomain.Lookup) ([]reservationdomain.Reservation, error)
	updateFn  func(identity.ID, reservationdomain.UpdateDateCommand) (*reservationdomain.Reservation, error)
	deleteErr error
	listCalls int
	findCalls int
}

func (f *fakeReservationService) Create(_ context.Context, cmd reservationdomain.CreateReservationCommand) (*reservationdomain.Reservation, error) {
	return f.createFn(cmd)
}

func (f *fakeReservationService) List(context.Context) ([]reservationdomain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return reservationdomain.CloneReservations(f.items), nil
}

func (f *fakeReservationService) FindByDniAndCode(_ context.Context, lookup reservationdomain.Lookup) ([]reservationdomain.Reservation, error) {
	f.findCalls++
	return f.findFn(lookup)
}

func (f *fakeReservationService) UpdateDate(_ context.Context, id identity.ID, cmd reservationdomain.UpdateDateCommand) (*reservationdomain.Reservation, error) {
	return f.updateFn(id, cmd)
}

func (f *fakeReservationService) Delete(_ context.Context, id identity.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
}

func (n *recordingNotifier) Broadcast(_ context.Context, msg *domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topics = append(n.topics, msg.Topic)
}

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]string
	elapsed  map[string]time.Duration
	sizes    map[string]int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{outcomes: map[string]string{}, elapsed: map[string]time.Duration{}, sizes: map[string]int{}}
}

func (r *recordingRecorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[operation] = outcome
	r.elapsed[operation] = elapsed
}

func (r *recordingRecorder) SetCacheSize(entity string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes[entity] = size
}

func restaurantIDs(items []restaurantdomain.Restaurant) []identity.ID {
	ids := make([]identity.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func reservationIDs(items []reservationdomain.Reservation) []identity.ID {
	ids := make([]identity.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
