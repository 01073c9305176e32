package services

import (
	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/cache"
	"github.com/codeinozzz/capstone-prog-5-front/services/catalog/infrastructure/backend"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Catalog *CatalogService
}

// New wires the catalog application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	var hotelCache *cache.HotelCache
	if a.Redis != nil {
		hotelCache = cache.NewHotelCache(a.Redis)
	}
	return &Services{
		Catalog: NewCatalogService(backend.NewClient(a.Backend), hotelCache, a.Logger),
	}
}
