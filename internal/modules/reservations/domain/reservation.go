package domain

import (
	"errors"
	"strings"

	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/identity"
)

// ErrMissingLookupKey is returned when a self-service lookup lacks the dni or the code.
var ErrMissingLookupKey = errors.New("dni and code are required")

// Reservation is a booking as returned by the server. Code is issued once at creation
// and never produced or altered on this side.
type Reservation struct {
	ID            identity.ID                  `json:"id"`
	RestaurantID  identity.ID                  `json:"restaurant_id"`
	CustomerName  string                       `json:"customer_name"`
	CustomerEmail string                       `json:"customer_email"`
	CustomerDNI   string                       `json:"customer_dni"`
	Date          string                       `json:"date"`
	Code          string                       `json:"code,omitempty"`
	Restaurant    *restaurantdomain.Restaurant `json:"restaurant,omitempty"`
}

// BelongsTo reports whether the reservation references restaurantID.
func (r Reservation) BelongsTo(restaurantID identity.ID) bool {
	return !restaurantID.IsZero() && r.RestaurantID == restaurantID
}

// Clone returns a copy that shares nothing with the receiver.
func (r Reservation) Clone() Reservation {
	if r.Restaurant != nil {
		restaurant := *r.Restaurant
		r.Restaurant = &restaurant
	}
	return r
}

// CloneReservations deep-copies a reservation slice.
func CloneReservations(items []Reservation) []Reservation {
	out := make([]Reservation, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// Lookup is the (dni, code) pair that identifies a reservation for an unauthenticated customer.
type Lookup struct {
	DNI  string `json:"dni" query:"dni"`
	Code string `json:"code" query:"code"`
}

func (l Lookup) Normalize() Lookup {
	return Lookup{DNI: strings.TrimSpace(l.DNI), Code: strings.TrimSpace(l.Code)}
}

func (l Lookup) Validate() error {
	n := l.Normalize()
	if n.DNI == "" || n.Code == "" {
		return ErrMissingLookupKey
	}
	return nil
}
