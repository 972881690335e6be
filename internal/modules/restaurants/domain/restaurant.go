package domain

import (
	"strings"

	"restauReserva/internal/shared/identity"
	"restauReserva/internal/shared/validation"
)

// Restaurant mirrors the server representation. The server is the source of truth for every field.
type Restaurant struct {
	ID          identity.ID `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	PhotoURL    string      `json:"photo_url"`
	IsActive    bool        `json:"is_active"`
}

// Input carries the writable restaurant fields (everything except the id).
type Input struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	PhotoURL    string `json:"photo_url"`
	IsActive    bool   `json:"is_active"`
}

// Normalize trims free-text fields in place.
func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
}

func (in Input) Validate() error {
	in.Normalize()
	return validation.Struct(in)
}

// InputFrom projects a restaurant onto its writable fields.
func InputFrom(r Restaurant) Input {
	return Input{
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		PhotoURL:    r.PhotoURL,
		IsActive:    r.IsActive,
	}
}

// CloneRestaurants copies the slice so callers cannot mutate cached state.
func CloneRestaurants(items []Restaurant) []Restaurant {
	if items == nil {
		return []Restaurant{}
	}
	out := make([]Restaurant, len(items))
	copy(out, items)
	return out
}
