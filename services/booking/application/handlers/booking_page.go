package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/auth"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/errhttp"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	appsvcs "github.com/codeinozzz/capstone-prog-5-front/services/booking/application/services"
)

// BookingPageHandler handles GET /booking/room/{roomId}: it mounts a fresh
// form controller for the browser session and registers it with the
// deactivation guard, so navigating away with unsaved edits triggers the
// confirmation flow.
type BookingPageHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewBookingPageHandler returns a BookingPageHandler backed by the given services.
func NewBookingPageHandler(a *app.Application, svc *appsvcs.Services) *BookingPageHandler {
	return &BookingPageHandler{app: a, svc: svc}
}

// Execute mounts the booking form for a room.
//
//	@Summary		Open the booking form
//	@Description	Mounts a fresh booking form for the room, seeded from the signed-in user's identity
//	@Tags			booking
//	@Produce		json
//	@Param			roomId	path		string	true	"Room ID"
//	@Param			hotelId	query		string	false	"Hotel ID; resolved from the room when omitted"
//	@Success		200		{object}	FormStateResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/booking/room/{roomId} [get]
func (h *BookingPageHandler) Execute(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	sid, err := h.app.Sessions.SID(w, r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	roomID := chi.URLParam(r, "roomId")
	hotelID := r.URL.Query().Get("hotelId")
	if hotelID == "" {
		resolved, err := h.svc.Bookings.RoomHotel(r.Context(), roomID)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		hotelID = resolved
	}

	ctrl := h.svc.Forms.Mount(sid, hotelID, roomID, user)
	h.app.Nav.Mount(sid, r.URL.Path, ctrl)

	httpx.JSON(w, http.StatusOK, formState(hotelID, roomID, ctrl.Snapshot()))
}

// SelectRoomResponse points the client at the guarded booking form for a
// hotel/room selection.
type SelectRoomResponse struct {
	HotelID string `json:"hotelId"`
	RoomID  string `json:"roomId,omitempty"`
	FormURL string `json:"formUrl,omitempty"`
} // @name SelectRoomResponse

// SelectionHandler handles the room-selection step pages,
// GET /booking/{hotelId} and GET /booking/{hotelId}/{roomId}.
type SelectionHandler struct{}

// NewSelectionHandler returns a SelectionHandler.
func NewSelectionHandler() *SelectionHandler {
	return &SelectionHandler{}
}

// Execute renders the selection step for a hotel, optionally with a room chosen.
//
//	@Summary		Booking selection step
//	@Tags			booking
//	@Produce		json
//	@Param			hotelId	path		string	true	"Hotel ID"
//	@Success		200		{object}	SelectRoomResponse
//	@Router			/booking/{hotelId} [get]
func (h *SelectionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "hotelId")
	roomID := chi.URLParam(r, "roomId")

	resp := SelectRoomResponse{HotelID: hotelID, RoomID: roomID}
	if roomID != "" {
		resp.FormURL = "/booking/room/" + roomID + "?hotelId=" + hotelID
	}
	httpx.JSON(w, http.StatusOK, resp)
}
