package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/shared/identity"
)

// listRestaurants reloads the collection for the requested filter. With source=cache the
// filter is applied to the cached collection and the server is not contacted.
func (h *Handler) listRestaurants(c echo.Context) error {
	filter := restaurantdomain.Filter{City: c.QueryParam("city"), Letter: c.QueryParam("letter")}.Normalize()
	if strings.EqualFold(strings.TrimSpace(c.QueryParam("source")), "cache") {
		return c.JSON(http.StatusOK, h.store.RestaurantsMatching(filter))
	}
	if err := h.store.LoadRestaurants(c.Request().Context(), filter); err != nil {
		return h.restaurants.Respond(c, "restaurants.list", err)
	}
	return c.JSON(http.StatusOK, h.store.Restaurants())
}

func (h *Handler) listCities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Cities())
}

func (h *Handler) createRestaurant(c echo.Context) error {
	input, err := bindRestaurantInput(c)
	if err != nil {
		return h.restaurants.Respond(c, "restaurants.create", err)
	}
	created, err := h.store.AddRestaurant(c.Request().Context(), input)
	if err != nil {
		return h.restaurants.Respond(c, "restaurants.create", err)
	}
	if created == nil {
		return h.restaurants.Respond(c, "restaurants.create", errRestaurantNotSaved)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateRestaurant(c echo.Context) error {
	id := identity.ID(strings.TrimSpace(c.Param("id")))
	input, err := bindRestaurantInput(c)
	if err != nil {
		return h.restaurants.Respond(c, "restaurants.update", err)
	}
	updated, err := h.store.UpdateRestaurant(c.Request().Context(), id, input)
	if err != nil {
		return h.restaurants.Respond(c, "restaurants.update", err)
	}
	if updated == nil {
		return h.restaurants.Respond(c, "restaurants.update", errRestaurantNotSaved)
	}
	return c.JSON(http.StatusOK, updated)
}

// deleteRestaurant answers 204 once the server accepted the delete. A swallowed server
// failure is reported as a gateway error, cached or not.
func (h *Handler) deleteRestaurant(c echo.Context) error {
	id := identity.ID(strings.TrimSpace(c.Param("id")))
	deleted, err := h.store.DeleteRestaurant(c.Request().Context(), id)
	if err != nil {
		return h.restaurants.Respond(c, "restaurants.delete", err)
	}
	if !deleted {
		return h.restaurants.Respond(c, "restaurants.delete", errRestaurantNotDeleted)
	}
	return c.NoContent(http.StatusNoContent)
}

func bindRestaurantInput(c echo.Context) (restaurantdomain.Input, error) {
	var input restaurantdomain.Input
	if err := c.Bind(&input); err != nil {
		return input, errInvalidBody
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		return input, err
	}
	return input, nil
}
