package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/auth"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/navigation"
	"github.com/codeinozzz/capstone-prog-5-front/services/catalog/application/handlers"
	appsvcs "github.com/codeinozzz/capstone-prog-5-front/services/catalog/application/services"
)

// CatalogRoutes registers the browse pages on the provided chi router.
// Browsing is public except for a hotel's room list, which requires sign-in;
// all pages run the leave guard so an abandoned booking form is caught.
func CatalogRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	requireAuth := auth.RequireAuth(a.Sessions, a.Logger)
	guardLeave := navigation.Middleware(a.Nav, a.Sessions.SID, a.Logger)

	r.With(guardLeave).Get("/", handlers.NewHomeHandler(svcs).Execute)
	r.With(guardLeave).Get("/search-rooms", handlers.NewSearchRoomsHandler(svcs).Execute)
	r.With(requireAuth, guardLeave).Get("/hotel/{hotelId}/rooms", handlers.NewHotelRoomsHandler(svcs).Execute)
}
