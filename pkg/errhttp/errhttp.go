// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	bookingdomain "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain"
	catalogdomain "github.com/codeinozzz/capstone-prog-5-front/services/catalog/domain"
	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly. Backend
// failures are reported with the browser-facing message from restapi so the
// user never sees a raw transport error. Defaults to 500 Internal Server Error
// for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), messageFor(err))
}

// messageFor picks the response message. Backend failures use the normalized
// browser-facing text from restapi; domain errors speak for themselves.
func messageFor(err error) string {
	var apiErr *restapi.APIError
	if errors.Is(err, restapi.ErrConnectivity) || errors.As(err, &apiErr) {
		return restapi.UserMessage(err)
	}
	return err.Error()
}

func mapErrorToStatus(err error) int {
	var apiErr *restapi.APIError
	switch {
	case errors.Is(err, restapi.ErrConnectivity):
		return http.StatusBadGateway // 502, backend unreachable
	case errors.As(err, &apiErr):
		return apiErr.Status // backend's own verdict passes through
	case errors.Is(err, bookingdomain.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, bookingdomain.ErrSubmitInFlight):
		return http.StatusConflict // 409
	case errors.Is(err, bookingdomain.ErrControllerDisposed):
		return http.StatusGone // 410
	case errors.Is(err, catalogdomain.ErrHotelNotFound),
		errors.Is(err, catalogdomain.ErrRoomNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, identitydomain.ErrNotAuthenticated):
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
