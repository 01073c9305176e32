package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/auth"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/navigation"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/application/handlers"
	appsvcs "github.com/codeinozzz/capstone-prog-5-front/services/booking/application/services"
)

// BookingRoutes registers booking endpoints on the provided chi router.
// The form host route sits behind both guards: activation (signed-in user)
// and deactivation (unsaved-changes confirmation on the way out).
func BookingRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	requireAuth := auth.RequireAuth(a.Sessions, a.Logger)
	guardLeave := navigation.Middleware(a.Nav, a.Sessions.SID, a.Logger)

	r.Route("/booking", func(r chi.Router) {
		r.With(guardLeave).Get("/{hotelId}", handlers.NewSelectionHandler().Execute)
		r.With(guardLeave).Get("/{hotelId}/{roomId}", handlers.NewSelectionHandler().Execute)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, guardLeave)
			r.Get("/room/{roomId}", handlers.NewBookingPageHandler(a, svcs).Execute)
		})

		r.Route("/form", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/field", handlers.NewFieldHandler(a, svcs).Execute)
			r.Post("/submit", handlers.NewSubmitHandler(a, svcs).Execute)
			r.Post("/reset", handlers.NewResetHandler(a, svcs).Execute)
		})
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(requireAuth, guardLeave)
		r.Get("/my-bookings", handlers.NewMyBookingsHandler(a, svcs).Execute)
		r.Post("/my-bookings/{bookingId}/cancel", handlers.NewCancelBookingHandler(a, svcs).Execute)
	})
}
