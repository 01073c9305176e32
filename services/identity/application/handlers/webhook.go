package handlers

import (
	"io"
	"net/http"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	"github.com/codeinozzz/capstone-prog-5-front/services/identity/infrastructure/clerk"
)

const maxWebhookBody = 1 << 20

// WebhookHandler handles POST /webhooks/identity: provider-originated
// sign-in/sign-out notifications. Verified events are fanned out to every
// browser session holding the affected user, which is how a sign-out in one
// tab reaches the others.
type WebhookHandler struct {
	app      *app.Application
	provider *clerk.Client
}

// NewWebhookHandler returns a WebhookHandler verifying against the given provider.
func NewWebhookHandler(a *app.Application, provider *clerk.Client) *WebhookHandler {
	return &WebhookHandler{app: a, provider: provider}
}

// Execute ingests one provider webhook delivery.
//
//	@Summary		Identity provider webhook
//	@Tags			identity
//	@Accept			json
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Router			/webhooks/identity [post]
func (h *WebhookHandler) Execute(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if err := h.provider.VerifyWebhook(payload,
		r.Header.Get("svix-id"),
		r.Header.Get("svix-timestamp"),
		r.Header.Get("svix-signature"),
	); err != nil {
		h.app.Logger.WarnContext(r.Context(), "webhook signature rejected", "error", err)
		httpx.JSONError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	userID, evt, err := clerk.ParseWebhookEvent(payload)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed event")
		return
	}
	if evt != nil && userID != "" {
		h.app.Sessions.DispatchEvent(userID, *evt)
		h.app.Logger.InfoContext(r.Context(), "identity event dispatched",
			"user_id", userID, "signed_in", evt.User != nil)
	}
	w.WriteHeader(http.StatusNoContent)
}
