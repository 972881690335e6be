package normalization

import "strings"

const (
	EntityRestaurants  = "restaurants"
	EntityReservations = "reservations"
)

// entityAliases maps the entity names seen in server events to their canonical form.
var entityAliases = map[string]string{
	"restaurant":   EntityRestaurants,
	"restaurants":  EntityRestaurants,
	"reservation":  EntityReservations,
	"reservations": EntityReservations,
	"booking":      EntityReservations,
	"bookings":     EntityReservations,
}

// NormalizeEntity converts various entity name formats to their canonical form.
//
// Example:
//
//	NormalizeEntity(" Restaurant ") => "restaurants"
//	NormalizeEntity("custom_entity") => "custom-entity"
func NormalizeEntity(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsCachedEntity reports whether the entity is one the client keeps in memory.
func IsCachedEntity(raw string) bool {
	switch NormalizeEntity(raw) {
	case EntityRestaurants, EntityReservations:
		return true
	default:
		return false
	}
}
