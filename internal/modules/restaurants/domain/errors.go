package domain

import "errors"

// Fixed failures reported by the restaurant service. The underlying server
// detail is intentionally not carried.
var (
	ErrListRestaurants  = errors.New("could not fetch restaurants")
	ErrCreateRestaurant = errors.New("could not create restaurant")
	ErrUpdateRestaurant = errors.New("could not update restaurant")
	ErrDeleteRestaurant = errors.New("could not delete restaurant")
)
