package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/errhttp"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	appsvcs "github.com/codeinozzz/capstone-prog-5-front/services/booking/application/services"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/models"
)

// MyBookingsResponse lists the signed-in user's bookings.
type MyBookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
	Total    int              `json:"total"`
} // @name MyBookingsResponse

// MyBookingsHandler handles GET /user/my-bookings.
type MyBookingsHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewMyBookingsHandler returns a MyBookingsHandler backed by the given services.
func NewMyBookingsHandler(a *app.Application, svc *appsvcs.Services) *MyBookingsHandler {
	return &MyBookingsHandler{app: a, svc: svc}
}

// Execute lists the user's bookings.
//
//	@Summary		My bookings
//	@Tags			booking
//	@Produce		json
//	@Success		200	{object}	MyBookingsResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/user/my-bookings [get]
func (h *MyBookingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	token, err := h.app.Sessions.Token(w, r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	bookings, err := h.svc.Bookings.MyBookings(r.Context(), token)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, MyBookingsResponse{Bookings: bookings, Total: len(bookings)})
}

// CancelBookingHandler handles POST /user/my-bookings/{bookingId}/cancel.
type CancelBookingHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewCancelBookingHandler returns a CancelBookingHandler backed by the given services.
func NewCancelBookingHandler(a *app.Application, svc *appsvcs.Services) *CancelBookingHandler {
	return &CancelBookingHandler{app: a, svc: svc}
}

// Execute cancels one of the user's bookings.
//
//	@Summary		Cancel a booking
//	@Tags			booking
//	@Produce		json
//	@Param			bookingId	path	string	true	"Booking ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/user/my-bookings/{bookingId}/cancel [post]
func (h *CancelBookingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	token, err := h.app.Sessions.Token(w, r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.svc.Bookings.Cancel(r.Context(), token, chi.URLParam(r, "bookingId")); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
