package handlers

import (
	"net/http"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/errhttp"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
)

// CallbackHandler handles GET /auth/callback, where the hosted sign-in flow
// lands with a session token. The token is verified, bound to the browser
// session, and the user is sent back where they were headed.
type CallbackHandler struct {
	app *app.Application
}

// NewCallbackHandler returns a CallbackHandler.
func NewCallbackHandler(a *app.Application) *CallbackHandler {
	return &CallbackHandler{app: a}
}

// Execute completes the sign-in flow.
//
//	@Summary		Sign-in callback
//	@Tags			identity
//	@Param			session_token	query	string	true	"Provider session token"
//	@Param			returnUrl		query	string	false	"Route to return to"
//	@Success		302
//	@Failure		401	{object}	ErrorResponse
//	@Router			/auth/callback [get]
func (h *CallbackHandler) Execute(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("session_token")
	if token == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing session token")
		return
	}

	user, err := h.app.Sessions.SignIn(w, r, token)
	if err != nil {
		h.app.Logger.WarnContext(r.Context(), "sign-in rejected", "error", err)
		httpx.JSONError(w, http.StatusUnauthorized, "sign-in could not be verified")
		return
	}
	h.app.Logger.InfoContext(r.Context(), "user signed in", "user_id", user.ID)

	target := safeReturnURL(r.URL.Query().Get("returnUrl"))
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// SignOutResponse acknowledges a completed sign-out.
type SignOutResponse struct {
	SignedOut bool `json:"signedOut"`
} // @name SignOutResponse

// SignOutHandler handles POST /auth/signout.
type SignOutHandler struct {
	app *app.Application
}

// NewSignOutHandler returns a SignOutHandler.
func NewSignOutHandler(a *app.Application) *SignOutHandler {
	return &SignOutHandler{app: a}
}

// Execute signs the browser session out.
//
//	@Summary		Sign out
//	@Tags			identity
//	@Produce		json
//	@Success		200	{object}	SignOutResponse
//	@Router			/auth/signout [post]
func (h *SignOutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Sessions.SignOut(w, r); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SignOutResponse{SignedOut: true})
}
