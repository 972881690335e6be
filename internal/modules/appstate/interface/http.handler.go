package transport

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"restauReserva/internal/modules/appstate/application/usecase"
	"restauReserva/internal/modules/appstate/infrastructure"
	"restauReserva/internal/platform/tokenstore"
	"restauReserva/internal/shared/httputil"
)

// Handler exposes the application state store to local front ends over HTTP and websocket.
type Handler struct {
	store       *usecase.Store
	tokens      tokenstore.Store
	tokenKey    string
	hub         *infrastructure.Hub
	commands    *infrastructure.CommandProcessor
	restaurants *httputil.ErrorMapper
	bookings    *httputil.ErrorMapper
	sessions    *httputil.ErrorMapper
	now         func() time.Time
}

func NewHandler(store *usecase.Store, tokens tokenstore.Store, tokenKey string, hub *infrastructure.Hub) *Handler {
	h := &Handler{
		store:       store,
		tokens:      tokens,
		tokenKey:    tokenKey,
		hub:         hub,
		restaurants: newRestaurantErrorMapper(),
		bookings:    newReservationErrorMapper(),
		sessions:    newSessionErrorMapper(),
		now:         time.Now,
	}
	h.commands = h.newCommandProcessor()
	return h
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/state", h.getState)

	api.GET("/restaurants", h.listRestaurants)
	api.GET("/restaurants/cities", h.listCities)
	api.POST("/restaurants", h.createRestaurant)
	api.PUT("/restaurants/:id", h.updateRestaurant)
	api.DELETE("/restaurants/:id", h.deleteRestaurant)

	api.GET("/reservations", h.listReservations)
	api.GET("/reservations/search", h.searchReservation)
	api.GET("/reservations/export", h.exportReservations)
	api.POST("/reservations", h.createReservation)
	api.PUT("/reservations/:id", h.updateReservationDate)
	api.DELETE("/reservations/:id", h.deleteReservation)

	api.GET("/session", h.getSession)
	api.PUT("/session/token", h.putSessionToken)
	api.DELETE("/session/token", h.deleteSessionToken)

	e.GET("/ws/state", h.streamState)
}

func (h *Handler) getState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot())
}
