package models

// Hotel is the catalog read model for a hotel as served by the backend.
// ImageURL and PricePerNight may be absent upstream; the catalog service
// fills deterministic defaults before rendering.
type Hotel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Description   string  `json:"description,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	PricePerNight float64 `json:"pricePerNight,omitempty"`
}

// Room is the catalog read model for a bookable room.
type Room struct {
	ID            string  `json:"id"`
	HotelID       string  `json:"hotelId"`
	Type          string  `json:"type"`
	Description   string  `json:"description,omitempty"`
	Capacity      int     `json:"capacity"`
	PricePerNight float64 `json:"pricePerNight"`
	Available     bool    `json:"available"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// RoomFilters narrows a room search. Zero values mean "no constraint".
type RoomFilters struct {
	HotelID   string
	Location  string
	CheckIn   string // ISO calendar date
	CheckOut  string // ISO calendar date
	Guests    int
	MaxPrice  float64
	RoomType  string
	Available bool
}
