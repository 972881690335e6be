package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/platform/apiclient"
	"restauReserva/internal/shared/identity"
)

const restaurantsPath = "/restaurants"

// RestaurantHTTPClient is the restaurant resource service. Every failure is replaced by
// one of the fixed domain errors; the server detail only reaches the log.
type RestaurantHTTPClient struct {
	api *apiclient.Client
}

func NewRestaurantHTTPClient(api *apiclient.Client) *RestaurantHTTPClient {
	return &RestaurantHTTPClient{api: api}
}

func (c *RestaurantHTTPClient) List(ctx context.Context, filter domain.Filter) ([]domain.Restaurant, error) {
	var items []domain.Restaurant
	query := apiclient.Query(filter.Params())
	if err := c.api.DoJSON(ctx, http.MethodGet, restaurantsPath, query, nil, &items); err != nil {
		return nil, replace("list", domain.ErrListRestaurants, err)
	}
	if items == nil {
		items = []domain.Restaurant{}
	}
	return items, nil
}

func (c *RestaurantHTTPClient) Create(ctx context.Context, input domain.Input) (*domain.Restaurant, error) {
	var created domain.Restaurant
	if err := c.api.DoJSON(ctx, http.MethodPost, restaurantsPath, nil, input, &created); err != nil {
		return nil, replace("create", domain.ErrCreateRestaurant, err)
	}
	return &created, nil
}

func (c *RestaurantHTTPClient) Update(ctx context.Context, id identity.ID, input domain.Input) (*domain.Restaurant, error) {
	path, err := apiclient.ResourcePath(restaurantsPath, id.String())
	if err != nil {
		return nil, replace("update", domain.ErrUpdateRestaurant, err)
	}
	var updated domain.Restaurant
	if err := c.api.DoJSON(ctx, http.MethodPut, path, nil, input, &updated); err != nil {
		return nil, replace("update", domain.ErrUpdateRestaurant, err)
	}
	if updated.ID.IsZero() {
		updated.ID = id
	}
	return &updated, nil
}

func (c *RestaurantHTTPClient) Delete(ctx context.Context, id identity.ID) error {
	path, err := apiclient.ResourcePath(restaurantsPath, id.String())
	if err != nil {
		return replace("delete", domain.ErrDeleteRestaurant, err)
	}
	if err := c.api.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return replace("delete", domain.ErrDeleteRestaurant, err)
	}
	return nil
}

func replace(operation string, sentinel, cause error) error {
	attrs := []any{slog.String("operation", operation), slog.Any("error", cause)}
	var apiErr *apiclient.Error
	if errors.As(cause, &apiErr) {
		attrs = append(attrs, slog.String("kind", string(apiErr.Kind)), slog.Int("status", apiErr.Status))
	}
	slog.Debug("restaurant service failure", attrs...)
	return sentinel
}
