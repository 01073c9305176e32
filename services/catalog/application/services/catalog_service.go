// Package services hosts the catalog read service: backend hotel/room reads
// behind a Redis read-through cache, with deterministic presentation
// defaults for hotels the backend returns without an image or price.
package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/codeinozzz/capstone-prog-5-front/pkg/cache"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/services/catalog/domain/models"
	"github.com/codeinozzz/capstone-prog-5-front/services/catalog/infrastructure/backend"
)

// defaultHotelImages are the stock photos assigned to hotels without one.
// Assignment hashes the hotel ID so a hotel always gets the same picture.
var defaultHotelImages = []string{
	"https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800",
	"https://images.unsplash.com/photo-1542314831-068cd1dbfeeb?w=800",
	"https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=800",
	"https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?w=800",
	"https://images.unsplash.com/photo-1445019980597-93fa8acb246c?w=800",
}

const fallbackNightlyRate = 99

// CatalogService serves hotel and room reads. Hotel reads go through the
// Redis cache; room availability is always fetched live.
type CatalogService struct {
	client *backend.Client
	cache  *pkgcache.HotelCache
	log    logger.Logger
}

// NewCatalogService returns a CatalogService wired with the given client and cache.
func NewCatalogService(client *backend.Client, hotelCache *pkgcache.HotelCache, log logger.Logger) *CatalogService {
	return &CatalogService{client: client, cache: hotelCache, log: log}
}

// Hotels returns all hotels, enriched, using a read-through cache pattern:
//  1. Check Redis first.
//  2. On cache miss (or cache error), query the backend.
//  3. Asynchronously warm the cache with the backend result.
func (s *CatalogService) Hotels(ctx context.Context) ([]models.Hotel, error) {
	if s.cache != nil {
		var cached []models.Hotel
		if err := s.cache.GetList(ctx, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "hotel list cache read failed", "error", err)
		}
	}

	hotels, err := s.client.Hotels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range hotels {
		enrichHotel(&hotels[i])
	}

	if s.cache != nil {
		go func() {
			if err := s.cache.SetList(context.Background(), hotels); err != nil {
				s.log.Warn("hotel list cache warm failed", "error", err)
			}
		}()
	}
	return hotels, nil
}

// SearchHotels returns hotels matching a location, enriched. Search results
// are not cached; the term space is unbounded.
func (s *CatalogService) SearchHotels(ctx context.Context, location string) ([]models.Hotel, error) {
	hotels, err := s.client.SearchHotels(ctx, location)
	if err != nil {
		return nil, err
	}
	for i := range hotels {
		enrichHotel(&hotels[i])
	}
	return hotels, nil
}

// Hotel returns one hotel, enriched, read-through cached by ID.
func (s *CatalogService) Hotel(ctx context.Context, hotelID string) (*models.Hotel, error) {
	if s.cache != nil {
		var cached models.Hotel
		if err := s.cache.Get(ctx, hotelID, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "hotel cache read failed", "hotel_id", hotelID, "error", err)
		}
	}

	hotel, err := s.client.Hotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	enrichHotel(hotel)

	if s.cache != nil {
		go func() {
			if err := s.cache.Set(context.Background(), hotelID, hotel); err != nil {
				s.log.Warn("hotel cache warm failed", "hotel_id", hotelID, "error", err)
			}
		}()
	}
	return hotel, nil
}

// HotelRooms returns a hotel's rooms, with stay dates narrowing to available
// rooms when both are given.
func (s *CatalogService) HotelRooms(ctx context.Context, hotelID, checkIn, checkOut string) ([]models.Room, error) {
	if checkIn != "" && checkOut != "" {
		return s.client.AvailableRooms(ctx, hotelID, checkIn, checkOut)
	}
	return s.client.HotelRooms(ctx, hotelID)
}

// Room returns one room.
func (s *CatalogService) Room(ctx context.Context, roomID string) (*models.Room, error) {
	return s.client.Room(ctx, roomID)
}

// SearchRooms returns rooms matching the given filters.
func (s *CatalogService) SearchRooms(ctx context.Context, f models.RoomFilters) ([]models.Room, error) {
	return s.client.SearchRooms(ctx, f)
}

// enrichHotel fills presentation defaults the backend may omit. The image is
// picked deterministically from the hotel ID; a missing rate is derived from
// the rating so better hotels present as pricier.
func enrichHotel(h *models.Hotel) {
	if h.ImageURL == "" {
		h.ImageURL = defaultHotelImages[hashIndex(h.ID, len(defaultHotelImages))]
	}
	if h.PricePerNight <= 0 {
		if h.Rating > 0 {
			h.PricePerNight = math.Round(h.Rating * 45)
		} else {
			h.PricePerNight = fallbackNightlyRate
		}
	}
}

func hashIndex(s string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(s)) //nolint:errcheck
	return int(h.Sum32() % uint32(n))
}
