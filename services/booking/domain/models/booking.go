package models

// Booking is the backend's record of a confirmed reservation.
type Booking struct {
	ID                 string  `json:"id"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	HotelID            string  `json:"hotelId"`
	RoomID             string  `json:"roomId"`
	CheckIn            string  `json:"checkInDate"`  // ISO calendar date, YYYY-MM-DD
	CheckOut           string  `json:"checkOutDate"` // ISO calendar date, YYYY-MM-DD
	Guests             int     `json:"guests"`
	TotalPrice         float64 `json:"totalPrice"`
	Status             string  `json:"status"`
	HotelName          string  `json:"hotelName,omitempty"`
	RoomType           string  `json:"roomType,omitempty"`
	CreatedAt          string  `json:"createdAt,omitempty"`
}

// CreateBookingRequest is the payload for creating a booking on the backend.
type CreateBookingRequest struct {
	HotelID   string `json:"hotelId"`
	RoomID    string `json:"roomId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CheckIn   string `json:"checkInDate"`
	CheckOut  string `json:"checkOutDate"`
	Guests    int    `json:"guests"`
}
