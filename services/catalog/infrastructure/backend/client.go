// Package backend is the catalog service's client for the hotel REST backend.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	catalogdomain "github.com/codeinozzz/capstone-prog-5-front/services/catalog/domain"
	"github.com/codeinozzz/capstone-prog-5-front/services/catalog/domain/models"
)

// Client calls the backend's hotel and room read endpoints. All reads are
// public; no credential is attached.
type Client struct {
	api *restapi.Client
}

// NewClient wraps the shared backend client with catalog operations.
func NewClient(api *restapi.Client) *Client {
	return &Client{api: api}
}

// Hotels lists every hotel.
func (c *Client) Hotels(ctx context.Context) ([]models.Hotel, error) {
	env, err := c.api.Get(ctx, "/hotels", nil)
	if err != nil {
		return nil, err
	}
	var hotels []models.Hotel
	if err := env.Decode(&hotels); err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	return hotels, nil
}

// SearchHotels lists hotels matching a location.
func (c *Client) SearchHotels(ctx context.Context, location string) ([]models.Hotel, error) {
	q := url.Values{}
	q.Set("location", location)
	env, err := c.api.Get(ctx, "/hotels/search", q)
	if err != nil {
		return nil, err
	}
	var hotels []models.Hotel
	if err := env.Decode(&hotels); err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}
	return hotels, nil
}

// Hotel fetches one hotel. A backend 404 maps to ErrHotelNotFound.
func (c *Client) Hotel(ctx context.Context, hotelID string) (*models.Hotel, error) {
	env, err := c.api.Get(ctx, "/hotels/"+hotelID, nil)
	if err != nil {
		return nil, notFoundAs(err, catalogdomain.ErrHotelNotFound)
	}
	var hotel models.Hotel
	if err := env.Decode(&hotel); err != nil {
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	return &hotel, nil
}

// HotelRooms lists a hotel's rooms.
func (c *Client) HotelRooms(ctx context.Context, hotelID string) ([]models.Room, error) {
	env, err := c.api.Get(ctx, "/rooms/hotel/"+hotelID, nil)
	if err != nil {
		return nil, notFoundAs(err, catalogdomain.ErrHotelNotFound)
	}
	var rooms []models.Room
	if err := env.Decode(&rooms); err != nil {
		return nil, fmt.Errorf("list hotel rooms: %w", err)
	}
	return rooms, nil
}

// AvailableRooms lists a hotel's rooms free for the given date range.
func (c *Client) AvailableRooms(ctx context.Context, hotelID, checkIn, checkOut string) ([]models.Room, error) {
	q := url.Values{}
	q.Set("hotelId", hotelID)
	q.Set("checkIn", checkIn)
	q.Set("checkOut", checkOut)
	env, err := c.api.Get(ctx, "/rooms/available", q)
	if err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := env.Decode(&rooms); err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

// Room fetches one room. A backend 404 maps to ErrRoomNotFound.
func (c *Client) Room(ctx context.Context, roomID string) (*models.Room, error) {
	env, err := c.api.Get(ctx, "/rooms/"+roomID, nil)
	if err != nil {
		return nil, notFoundAs(err, catalogdomain.ErrRoomNotFound)
	}
	var room models.Room
	if err := env.Decode(&room); err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

// SearchRooms lists rooms matching the given filters.
func (c *Client) SearchRooms(ctx context.Context, f models.RoomFilters) ([]models.Room, error) {
	q := url.Values{}
	if f.HotelID != "" {
		q.Set("hotelId", f.HotelID)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.CheckIn != "" {
		q.Set("checkIn", f.CheckIn)
	}
	if f.CheckOut != "" {
		q.Set("checkOut", f.CheckOut)
	}
	if f.Guests > 0 {
		q.Set("guests", strconv.Itoa(f.Guests))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.RoomType != "" {
		q.Set("type", f.RoomType)
	}
	if f.Available {
		q.Set("available", "true")
	}

	env, err := c.api.Get(ctx, "/rooms/search", q)
	if err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := env.Decode(&rooms); err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}
	return rooms, nil
}

// notFoundAs converts a backend 404 into the given domain sentinel so
// handlers can answer with their own not-found page.
func notFoundAs(err error, sentinel error) error {
	var apiErr *restapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
