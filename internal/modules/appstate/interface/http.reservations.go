package transport

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"restauReserva/internal/modules/export"
	reservationdomain "restauReserva/internal/modules/reservations/domain"
	"restauReserva/internal/shared/identity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// listReservations loads the collection on first use (or with refresh=true) and then
// narrows it by restaurant_id and date.
func (h *Handler) listReservations(c echo.Context) error {
	refresh, _ := strconv.ParseBool(c.QueryParam("refresh"))
	if refresh || !h.store.ReservationsLoaded() {
		if err := h.store.LoadReservations(c.Request().Context()); err != nil {
			return h.bookings.Respond(c, "reservations.list", err)
		}
	}
	restaurantID := identity.ID(strings.TrimSpace(c.QueryParam("restaurant_id")))
	return c.JSON(http.StatusOK, h.store.ReservationsFor(restaurantID, c.QueryParam("date")))
}

func (h *Handler) createReservation(c echo.Context) error {
	var cmd reservationdomain.CreateReservationCommand
	if err := c.Bind(&cmd); err != nil {
		return h.bookings.Respond(c, "reservations.create", errInvalidBody)
	}
	created, err := h.store.CreateReservation(c.Request().Context(), cmd)
	if err != nil {
		return h.bookings.Respond(c, "reservations.create", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) searchReservation(c echo.Context) error {
	lookup := reservationdomain.Lookup{DNI: c.QueryParam("dni"), Code: c.QueryParam("code")}.Normalize()
	if err := lookup.Validate(); err != nil {
		return h.bookings.Respond(c, "reservations.search", err)
	}
	found, err := h.store.FindReservationByDniAndCode(c.Request().Context(), lookup)
	if err != nil {
		return h.bookings.Respond(c, "reservations.search", err)
	}
	if found == nil {
		return h.bookings.Respond(c, "reservations.search", errReservationNotFound)
	}
	return c.JSON(http.StatusOK, found)
}

func (h *Handler) updateReservationDate(c echo.Context) error {
	id := identity.ID(strings.TrimSpace(c.Param("id")))
	var cmd reservationdomain.UpdateDateCommand
	if err := c.Bind(&cmd); err != nil {
		return h.bookings.Respond(c, "reservations.update", errInvalidBody)
	}
	updated, err := h.store.UpdateReservationDate(c.Request().Context(), id, cmd.Date)
	if err != nil {
		return h.bookings.Respond(c, "reservations.update", err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteReservation(c echo.Context) error {
	id := identity.ID(strings.TrimSpace(c.Param("id")))
	if err := h.store.DeleteReservation(c.Request().Context(), id); err != nil {
		return h.bookings.Respond(c, "reservations.delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// exportReservations renders the cached reservations; it never triggers a load.
func (h *Handler) exportReservations(c echo.Context) error {
	now := h.now()
	var buf bytes.Buffer
	if err := export.WriteReservations(&buf, h.store.Reservations(), h.store.Restaurants(), now); err != nil {
		return h.bookings.Respond(c, "reservations.export", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.FileName(now)+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
