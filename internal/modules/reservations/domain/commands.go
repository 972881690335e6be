package domain

import (
	"strings"

	"restauReserva/internal/shared/identity"
	"restauReserva/internal/shared/validation"
)

// CreateReservationCommand is the body sent to create a reservation.
type CreateReservationCommand struct {
	RestaurantID  identity.ID `json:"restaurant_id" validate:"required"`
	CustomerName  string      `json:"customer_name" validate:"required"`
	CustomerEmail string      `json:"customer_email" validate:"required"`
	CustomerDNI   string      `json:"customer_dni" validate:"required"`
	Date          string      `json:"date" validate:"required"`
}

// NewReservation trims the command fields and checks that none is missing.
func NewReservation(restaurantID identity.ID, name, email, dni, date string) (CreateReservationCommand, error) {
	cmd := CreateReservationCommand{
		RestaurantID:  identity.ID(strings.TrimSpace(restaurantID.String())),
		CustomerName:  name,
		CustomerEmail: email,
		CustomerDNI:   dni,
		Date:          date,
	}
	return cmd.Normalize(), cmd.Validate()
}

func (c CreateReservationCommand) Normalize() CreateReservationCommand {
	c.RestaurantID = identity.ID(strings.TrimSpace(c.RestaurantID.String()))
	c.CustomerName = strings.TrimSpace(c.CustomerName)
	c.CustomerEmail = strings.TrimSpace(c.CustomerEmail)
	c.CustomerDNI = strings.TrimSpace(c.CustomerDNI)
	c.Date = strings.TrimSpace(c.Date)
	return c
}

func (c CreateReservationCommand) Validate() error {
	return validation.Struct(c.Normalize())
}

// UpdateDateCommand is the body sent to move a reservation to another date.
type UpdateDateCommand struct {
	Date string `json:"date" validate:"required"`
}

func (c UpdateDateCommand) Validate() error {
	c.Date = strings.TrimSpace(c.Date)
	return validation.Struct(c)
}
