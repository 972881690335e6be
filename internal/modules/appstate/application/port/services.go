package port

import (
	"context"

	reservationdomain "restauReserva/internal/modules/reservations/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/identity"
)

// RestaurantService is the remote restaurant resource.
type RestaurantService interface {
	List(ctx context.Context, filter restaurantdomain.Filter) ([]restaurantdomain.Restaurant, error)
	Create(ctx context.Context, input restaurantdomain.Input) (*restaurantdomain.Restaurant, error)
	Update(ctx context.Context, id identity.ID, input restaurantdomain.Input) (*restaurantdomain.Restaurant, error)
	Delete(ctx context.Context, id identity.ID) error
}

// ReservationService is the remote reservation resource.
type ReservationService interface {
	Create(ctx context.Context, cmd reservationdomain.CreateReservationCommand) (*reservationdomain.Reservation, error)
	List(ctx context.Context) ([]reservationdomain.Reservation, error)
	FindByDniAndCode(ctx context.Context, lookup reservationdomain.Lookup) ([]reservationdomain.Reservation, error)
	UpdateDate(ctx context.Context, id identity.ID, cmd reservationdomain.UpdateDateCommand) (*reservationdomain.Reservation, error)
	Delete(ctx context.Context, id identity.ID) error
}
