package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/navigation"
	"github.com/codeinozzz/capstone-prog-5-front/services/identity/application/handlers"
	"github.com/codeinozzz/capstone-prog-5-front/services/identity/infrastructure/clerk"
)

// IdentityRoutes registers the sign-in flow and provider webhook on the
// provided chi router. The page routes run the deactivation guard so a dirty
// booking form is challenged even when the user navigates to sign-in. The
// webhook authenticates by signature, never by browser session, so it sits
// outside every guard.
func IdentityRoutes(r chi.Router, a *app.Application, provider *clerk.Client) {
	guardLeave := navigation.Middleware(a.Nav, a.Sessions.SID, a.Logger)

	r.With(guardLeave).Get("/login", handlers.NewLoginPageHandler(a).Execute)
	r.With(guardLeave).Get("/auth/callback", handlers.NewCallbackHandler(a).Execute)
	r.Post("/auth/signout", handlers.NewSignOutHandler(a).Execute)
	r.Post("/webhooks/identity", handlers.NewWebhookHandler(a, provider).Execute)
}
