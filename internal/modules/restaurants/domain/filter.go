package domain

import "strings"

// Filter narrows a restaurant listing by city and initial letter of the name.
type Filter struct {
	City   string `json:"city,omitempty" query:"city"`
	Letter string `json:"letter,omitempty" query:"letter"`
}

// Normalize trims both values. Letter is a name prefix of any length and is passed to
// the server as typed; matching is case-insensitive on both sides.
func (f Filter) Normalize() Filter {
	f.City = strings.TrimSpace(f.City)
	f.Letter = strings.TrimSpace(f.Letter)
	return f
}

func (f Filter) IsZero() bool {
	n := f.Normalize()
	return n.City == "" && n.Letter == ""
}

// Params returns the filter as query parameters; blank values are left for the caller to drop.
func (f Filter) Params() map[string]string {
	n := f.Normalize()
	return map[string]string{"city": n.City, "letter": n.Letter}
}

// Matches applies the filter locally: case-insensitive name prefix and exact city.
func (f Filter) Matches(r Restaurant) bool {
	n := f.Normalize()
	if n.Letter != "" && !strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Name)), strings.ToLower(n.Letter)) {
		return false
	}
	if n.City != "" && r.City != n.City {
		return false
	}
	return true
}
