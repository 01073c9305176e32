package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrHotelNotFound indicates the requested hotel does not exist.
	ErrHotelNotFound = errors.New("hotel not found")

	// ErrRoomNotFound indicates the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")
)
