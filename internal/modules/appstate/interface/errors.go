package transport

import (
	"errors"
	"net/http"

	reservationdomain "restauReserva/internal/modules/reservations/domain"
	restaurantdomain "restauReserva/internal/modules/restaurants/domain"
	"restauReserva/internal/platform/apiclient"
	"restauReserva/internal/shared/auth"
	"restauReserva/internal/shared/httputil"
	"restauReserva/internal/shared/validation"
)

var (
	errRestaurantNotSaved   = errors.New("restaurant not saved")
	errRestaurantNotDeleted = errors.New("restaurant not deleted")
	errReservationNotFound  = errors.New("reservation not found")
	errInvalidBody          = errors.New("invalid request body")
	errSessionStore         = errors.New("session store failure")
)

func fieldErrors(err error) (httputil.Outcome, bool) {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return httputil.Outcome{Status: http.StatusBadRequest, Message: fe.Error()}, true
	}
	return httputil.Outcome{}, false
}

// Restaurant routes serve the back office; remote failures collapse into one notice.
func newRestaurantErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper(http.StatusBadGateway, "restaurant request failed",
		httputil.Match(errInvalidBody, http.StatusBadRequest, "invalid request body"),
		httputil.Match(restaurantdomain.ErrListRestaurants, http.StatusBadGateway, "could not fetch restaurants"),
		httputil.Match(errRestaurantNotSaved, http.StatusBadGateway, "could not save restaurant"),
		httputil.Match(errRestaurantNotDeleted, http.StatusBadGateway, "could not delete restaurant"),
		fieldErrors,
	)
}

// Reservation routes face customers; the server's own status and message pass through.
func newReservationErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper(http.StatusInternalServerError, "reservation request failed",
		httputil.Match(errInvalidBody, http.StatusBadRequest, "invalid request body"),
		httputil.Match(reservationdomain.ErrMissingLookupKey, http.StatusBadRequest, "dni and code are required"),
		httputil.Match(errReservationNotFound, http.StatusNotFound, "reservation not found"),
		fieldErrors,
		remoteError,
	)
}

func remoteError(err error) (httputil.Outcome, bool) {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return httputil.Outcome{}, false
	}
	switch apiErr.Kind {
	case apiclient.KindServer:
		status := apiErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return httputil.Outcome{Status: status, Message: apiclient.UserMessage(err, http.StatusText(status))}, true
	case apiclient.KindNetwork:
		return httputil.Outcome{Status: http.StatusBadGateway, Message: "reservation service unreachable"}, true
	default:
		return httputil.Outcome{Status: http.StatusBadGateway, Message: apiclient.UserMessage(err, "unexpected reservation service response")}, true
	}
}

func newSessionErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper(http.StatusInternalServerError, "session request failed",
		httputil.Match(errInvalidBody, http.StatusBadRequest, "invalid request body"),
		httputil.Match(auth.ErrMissingToken, http.StatusBadRequest, "missing token"),
		httputil.Match(auth.ErrMalformedToken, http.StatusBadRequest, "malformed token"),
		httputil.Match(errSessionStore, http.StatusInternalServerError, "session store unavailable"),
	)
}
