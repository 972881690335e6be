package domain

import (
	reservationdomain "restauReserva/internal/modules/reservations/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
)

// Snapshot is a detached copy of the cached collections.
type Snapshot struct {
	Restaurants  []restaurantdomain.Restaurant   `json:"restaurants"`
	Reservations []reservationdomain.Reservation `json:"reservations"`
	ActiveFilter restaurantdomain.Filter         `json:"activeFilter"`
}
