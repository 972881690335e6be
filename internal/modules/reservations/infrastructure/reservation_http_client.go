package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"restauReserva/internal/modules/reservations/domain"
	"restauReserva/internal/platform/apiclient"
	"restauReserva/internal/shared/identity"
)

const (
	reservationsPath = "/reservations"
	collectionPath   = reservationsPath + "/"
	searchPath       = reservationsPath + "/search/"
)

// ReservationHTTPClient is the reservation resource service. Errors are returned as the
// adapter produced them so server messages reach the caller.
type ReservationHTTPClient struct {
	api *apiclient.Client
}

func NewReservationHTTPClient(api *apiclient.Client) *ReservationHTTPClient {
	return &ReservationHTTPClient{api: api}
}

// Create posts the reservation and returns the server response, which carries the issued code.
func (c *ReservationHTTPClient) Create(ctx context.Context, cmd domain.CreateReservationCommand) (*domain.Reservation, error) {
	var created domain.Reservation
	if err := c.api.DoJSON(ctx, http.MethodPost, collectionPath, nil, cmd.Normalize(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns every reservation; the server exposes no restaurant or date narrowing.
func (c *ReservationHTTPClient) List(ctx context.Context) ([]domain.Reservation, error) {
	var items []domain.Reservation
	if err := c.api.DoJSON(ctx, http.MethodGet, collectionPath, nil, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Reservation{}
	}
	return items, nil
}

// FindByDniAndCode searches by the customer lookup pair. The server answers with an
// array; a single object is accepted too.
func (c *ReservationHTTPClient) FindByDniAndCode(ctx context.Context, lookup domain.Lookup) ([]domain.Reservation, error) {
	if err := lookup.Validate(); err != nil {
		return nil, err
	}
	n := lookup.Normalize()
	var raw json.RawMessage
	query := apiclient.Query(map[string]string{"dni": n.DNI, "code": n.Code})
	if err := c.api.DoJSON(ctx, http.MethodGet, searchPath, query, nil, &raw); err != nil {
		return nil, err
	}
	return decodeSearch(raw)
}

func (c *ReservationHTTPClient) UpdateDate(ctx context.Context, id identity.ID, cmd domain.UpdateDateCommand) (*domain.Reservation, error) {
	path, err := apiclient.ResourcePath(reservationsPath, id.String())
	if err != nil {
		return nil, err
	}
	var updated domain.Reservation
	if err := c.api.DoJSON(ctx, http.MethodPut, path, nil, cmd, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *ReservationHTTPClient) Delete(ctx context.Context, id identity.ID) error {
	path, err := apiclient.ResourcePath(reservationsPath, id.String())
	if err != nil {
		return err
	}
	return c.api.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func decodeSearch(raw json.RawMessage) ([]domain.Reservation, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.Reservation{}, nil
	}
	if trimmed[0] == '[' {
		var items []domain.Reservation
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return items, nil
	}
	var single domain.Reservation
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if single.ID.IsZero() {
		return []domain.Reservation{}, nil
	}
	return []domain.Reservation{single}, nil
}
