// Package backend is the booking service's client for the hotel REST backend.
package backend

import (
	"context"
	"fmt"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/models"
)

// Client calls the backend's booking endpoints. All operations require the
// caller's identity session token; the backend scopes bookings to that user.
type Client struct {
	api *restapi.Client
}

// NewClient wraps the shared backend client with booking operations.
func NewClient(api *restapi.Client) *Client {
	return &Client{api: api}
}

// Create submits a new booking and returns the backend's record, including
// the confirmation number.
func (c *Client) Create(ctx context.Context, token string, req models.CreateBookingRequest) (*models.Booking, error) {
	env, err := c.api.Post(ctx, "/bookings", req, token)
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	if err := env.Decode(&booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &booking, nil
}

// MyBookings lists the authenticated user's bookings.
func (c *Client) MyBookings(ctx context.Context, token string) ([]models.Booking, error) {
	env, err := c.api.GetAuthed(ctx, "/bookings/my", nil, token)
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if err := env.Decode(&bookings); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// RoomHotel resolves the hotel a room belongs to. Used when the booking page
// is reached with only a room in the route.
func (c *Client) RoomHotel(ctx context.Context, roomID string) (string, error) {
	env, err := c.api.Get(ctx, "/rooms/"+roomID, nil)
	if err != nil {
		return "", err
	}
	var room struct {
		HotelID string `json:"hotelId"`
	}
	if err := env.Decode(&room); err != nil {
		return "", fmt.Errorf("resolve room hotel: %w", err)
	}
	return room.HotelID, nil
}

// Cancel marks one of the user's bookings cancelled.
func (c *Client) Cancel(ctx context.Context, token, bookingID string) error {
	if _, err := c.api.Put(ctx, "/bookings/"+bookingID+"/cancel", nil, token); err != nil {
		return err
	}
	return nil
}
