package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/errhttp"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	appsvcs "github.com/codeinozzz/capstone-prog-5-front/services/catalog/application/services"
	"github.com/codeinozzz/capstone-prog-5-front/services/catalog/domain/models"
)

// HotelListResponse is the home page payload.
type HotelListResponse struct {
	Hotels []models.Hotel `json:"hotels"`
	Total  int            `json:"total"`
} // @name HotelListResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"hotel not found"`
} // @name ErrorResponse

// HomeHandler handles GET /: the hotel overview page. A location query
// narrows the list to matching hotels.
type HomeHandler struct {
	svc *appsvcs.Services
}

// NewHomeHandler returns a HomeHandler backed by the given services.
func NewHomeHandler(svc *appsvcs.Services) *HomeHandler {
	return &HomeHandler{svc: svc}
}

// Execute lists hotels.
//
//	@Summary		Hotel overview
//	@Tags			catalog
//	@Produce		json
//	@Param			location	query		string	false	"Filter hotels by location"
//	@Success		200			{object}	HotelListResponse
//	@Failure		502			{object}	ErrorResponse
//	@Router			/ [get]
func (h *HomeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var (
		hotels []models.Hotel
		err    error
	)
	if location := r.URL.Query().Get("location"); location != "" {
		hotels, err = h.svc.Catalog.SearchHotels(r.Context(), location)
	} else {
		hotels, err = h.svc.Catalog.Hotels(r.Context())
	}
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, HotelListResponse{Hotels: hotels, Total: len(hotels)})
}

// HotelRoomsResponse is the rooms page payload for one hotel.
type HotelRoomsResponse struct {
	Hotel *models.Hotel `json:"hotel"`
	Rooms []models.Room `json:"rooms"`
	Total int           `json:"total"`
} // @name HotelRoomsResponse

// HotelRoomsHandler handles GET /hotel/{hotelId}/rooms.
type HotelRoomsHandler struct {
	svc *appsvcs.Services
}

// NewHotelRoomsHandler returns a HotelRoomsHandler backed by the given services.
func NewHotelRoomsHandler(svc *appsvcs.Services) *HotelRoomsHandler {
	return &HotelRoomsHandler{svc: svc}
}

// Execute lists a hotel's rooms, narrowed to the stay dates when given.
//
//	@Summary		Hotel rooms
//	@Tags			catalog
//	@Produce		json
//	@Param			hotelId		path		string	true	"Hotel ID"
//	@Param			checkIn		query		string	false	"Stay start, YYYY-MM-DD"
//	@Param			checkOut	query		string	false	"Stay end, YYYY-MM-DD"
//	@Success		200			{object}	HotelRoomsResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/hotel/{hotelId}/rooms [get]
func (h *HotelRoomsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "hotelId")

	hotel, err := h.svc.Catalog.Hotel(r.Context(), hotelID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	rooms, err := h.svc.Catalog.HotelRooms(r.Context(), hotelID,
		r.URL.Query().Get("checkIn"), r.URL.Query().Get("checkOut"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, HotelRoomsResponse{Hotel: hotel, Rooms: rooms, Total: len(rooms)})
}

// RoomSearchResponse is the search page payload.
type RoomSearchResponse struct {
	Rooms []models.Room `json:"rooms"`
	Total int           `json:"total"`
} // @name RoomSearchResponse

// SearchRoomsHandler handles GET /search-rooms.
type SearchRoomsHandler struct {
	svc *appsvcs.Services
}

// NewSearchRoomsHandler returns a SearchRoomsHandler backed by the given services.
func NewSearchRoomsHandler(svc *appsvcs.Services) *SearchRoomsHandler {
	return &SearchRoomsHandler{svc: svc}
}

// Execute searches rooms across hotels.
//
//	@Summary		Search rooms
//	@Tags			catalog
//	@Produce		json
//	@Param			location	query		string	false	"Hotel location"
//	@Param			checkIn		query		string	false	"Stay start, YYYY-MM-DD"
//	@Param			checkOut	query		string	false	"Stay end, YYYY-MM-DD"
//	@Param			guests		query		int		false	"Guest count"
//	@Param			maxPrice	query		number	false	"Nightly price ceiling"
//	@Param			type		query		string	false	"Room type"
//	@Success		200			{object}	RoomSearchResponse
//	@Failure		502			{object}	ErrorResponse
//	@Router			/search-rooms [get]
func (h *SearchRoomsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	guests, _ := strconv.Atoi(q.Get("guests"))
	maxPrice, _ := strconv.ParseFloat(q.Get("maxPrice"), 64)

	rooms, err := h.svc.Catalog.SearchRooms(r.Context(), models.RoomFilters{
		HotelID:   q.Get("hotelId"),
		Location:  q.Get("location"),
		CheckIn:   q.Get("checkIn"),
		CheckOut:  q.Get("checkOut"),
		Guests:    guests,
		MaxPrice:  maxPrice,
		RoomType:  q.Get("type"),
		Available: q.Get("available") == "true",
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, RoomSearchResponse{Rooms: rooms, Total: len(rooms)})
}
