package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/errhttp"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
)

// LoginPageResponse points the client at the provider's hosted pages.
type LoginPageResponse struct {
	Authenticated bool   `json:"authenticated"`
	SignInURL     string `json:"signInUrl"`
	SignUpURL     string `json:"signUpUrl"`
	ReturnURL     string `json:"returnUrl,omitempty"`
} // @name LoginPageResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"authentication required"`
} // @name ErrorResponse

// LoginPageHandler handles GET /login, the target of guard denials. The
// returnUrl query carries the route the user originally asked for and is
// threaded through the hosted sign-in flow.
type LoginPageHandler struct {
	app *app.Application
}

// NewLoginPageHandler returns a LoginPageHandler.
func NewLoginPageHandler(a *app.Application) *LoginPageHandler {
	return &LoginPageHandler{app: a}
}

// Execute renders the login page.
//
//	@Summary		Login page
//	@Tags			identity
//	@Produce		json
//	@Param			returnUrl	query		string	false	"Route to return to after sign-in"
//	@Success		200			{object}	LoginPageResponse
//	@Router			/login [get]
func (h *LoginPageHandler) Execute(w http.ResponseWriter, r *http.Request) {
	store, err := h.app.Sessions.Store(w, r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	returnURL := safeReturnURL(r.URL.Query().Get("returnUrl"))
	callback := "/auth/callback"
	if returnURL != "" {
		callback += "?returnUrl=" + url.QueryEscape(returnURL)
	}

	snap := store.Snapshot()
	httpx.JSON(w, http.StatusOK, LoginPageResponse{
		Authenticated: snap.Loaded && snap.Authenticated,
		SignInURL:     store.SignInURL(callback),
		SignUpURL:     store.SignUpURL(callback),
		ReturnURL:     returnURL,
	})
}

// safeReturnURL accepts only same-site relative paths, discarding anything
// that could redirect off-site ("//evil.example", "https://...").
func safeReturnURL(s string) string {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.ContainsAny(s, "\\\r\n") {
		return ""
	}
	return s
}
