package navigation

import (
	"errors"
	"net/http"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	pkgvalidator "github.com/codeinozzz/capstone-prog-5-front/pkg/validator"
)

// SessionIDFunc resolves the browser session ID for a request, establishing
// a session when the request has none (auth.SessionManager.SID satisfies it).
type SessionIDFunc func(w http.ResponseWriter, r *http.Request) (string, error)

// LeaveChallengeResponse is returned with 409 Conflict when a navigation
// needs user confirmation before it may commit.
type LeaveChallengeResponse struct {
	ConfirmationRequired bool   `json:"confirmationRequired"`
	Token                string `json:"token"`
	Target               string `json:"target"`
	Message              string `json:"message"`
} // @name LeaveChallengeResponse

// Middleware intercepts page navigations and enforces the guard's decision.
// Allowed navigations pass through untouched; blocked ones answer 409 with a
// confirmation challenge the client resolves via the leave endpoint.
func Middleware(g *Guard, sid SessionIDFunc, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sid(w, r)
			if err != nil {
				log.WarnContext(r.Context(), "session unavailable for navigation check", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			decision := g.CanLeave(id, r.URL.Path)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			httpx.JSON(w, http.StatusConflict, LeaveChallengeResponse{
				ConfirmationRequired: true,
				Token:                decision.Challenge.Token,
				Target:               decision.Challenge.Target,
				Message:              ConfirmMessage,
			})
		})
	}
}

// LeaveRequest is the body for POST /navigation/leave.
type LeaveRequest struct {
	Token   string `json:"token" validate:"required,uuid4"`
	Confirm bool   `json:"confirm"`
} // @name LeaveRequest

// LeaveResponse reports the outcome of a resolved confirmation.
type LeaveResponse struct {
	Allowed bool   `json:"allowed"`
	Target  string `json:"target,omitempty"`
} // @name LeaveResponse

// LeaveHandler resolves a pending leave confirmation.
//
//	@Summary		Resolve an unsaved-changes confirmation
//	@Description	Confirms or declines leaving a page with unsaved state. On confirmation the client re-requests the target route, which then commits.
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LeaveRequest	true	"Confirmation decision"
//	@Success		200		{object}	LeaveResponse
//	@Failure		410		{object}	map[string]string
//	@Router			/navigation/leave [post]
func LeaveHandler(g *Guard, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := pkgvalidator.ValidateRequest[LeaveRequest](w, r)
		if !ok {
			return
		}

		target, err := g.ResolveLeave(req.Token, req.Confirm)
		if err != nil {
			if errors.Is(err, ErrUnknownChallenge) {
				httpx.JSONError(w, http.StatusGone, err.Error())
				return
			}
			httpx.JSONError(w, http.StatusInternalServerError, "could not resolve confirmation")
			return
		}

		if !req.Confirm {
			log.InfoContext(r.Context(), "navigation declined, page state preserved", "target", target)
			httpx.JSON(w, http.StatusOK, LeaveResponse{Allowed: false})
			return
		}
		httpx.JSON(w, http.StatusOK, LeaveResponse{Allowed: true, Target: target})
	}
}
