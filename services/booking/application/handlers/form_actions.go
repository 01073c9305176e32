package handlers

import (
	"errors"
	"net/http"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/errhttp"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/httpx"
	pkgvalidator "github.com/codeinozzz/capstone-prog-5-front/pkg/validator"
	appsvcs "github.com/codeinozzz/capstone-prog-5-front/services/booking/application/services"
	bookingdomain "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain"
)

// UpdateFieldRequest is the body for POST /booking/form/field.
type UpdateFieldRequest struct {
	Name  string `json:"name" validate:"required" example:"checkIn"`
	Value string `json:"value" example:"2026-09-12"`
} // @name UpdateFieldRequest

// FieldHandler records a single field edit on the mounted form.
type FieldHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewFieldHandler returns a FieldHandler backed by the given services.
func NewFieldHandler(a *app.Application, svc *appsvcs.Services) *FieldHandler {
	return &FieldHandler{app: a, svc: svc}
}

// Execute updates one draft field.
//
//	@Summary		Edit a booking form field
//	@Tags			booking
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateFieldRequest	true	"Field edit"
//	@Success		200		{object}	FormStateResponse
//	@Failure		410		{object}	ErrorResponse
//	@Router			/booking/form/field [post]
func (h *FieldHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := mountedForm(h.app, h.svc, w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateFieldRequest](w, r)
	if !ok {
		return
	}
	if err := ctrl.UpdateField(req.Name, req.Value); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, formState(ctrl.HotelID(), ctrl.RoomID(), ctrl.Snapshot()))
}

// SubmitHandler drives the form through its submission lifecycle.
type SubmitHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewSubmitHandler returns a SubmitHandler backed by the given services.
func NewSubmitHandler(a *app.Application, svc *appsvcs.Services) *SubmitHandler {
	return &SubmitHandler{app: a, svc: svc}
}

// Execute submits the mounted form.
//
//	@Summary		Submit the booking form
//	@Description	Validates the draft; on success the booking is created on the backend and the confirmation number returned
//	@Tags			booking
//	@Produce		json
//	@Success		201	{object}	FormStateResponse
//	@Failure		422	{object}	map[string]any
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/booking/form/submit [post]
func (h *SubmitHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := mountedForm(h.app, h.svc, w, r)
	if !ok {
		return
	}
	token, err := h.app.Sessions.Token(w, r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	_, err = ctrl.Submit(r.Context(), token)
	if err != nil {
		var verr *appsvcs.ValidationError
		if errors.As(err, &verr) {
			httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "Validation failed",
				"fields": verr.Fields,
				"form":   formState(ctrl.HotelID(), ctrl.RoomID(), ctrl.Snapshot()),
			})
			return
		}
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, formState(ctrl.HotelID(), ctrl.RoomID(), ctrl.Snapshot()))
}

// ResetHandler returns the mounted form to its pristine seeded state.
type ResetHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewResetHandler returns a ResetHandler backed by the given services.
func NewResetHandler(a *app.Application, svc *appsvcs.Services) *ResetHandler {
	return &ResetHandler{app: a, svc: svc}
}

// Execute resets the mounted form.
//
//	@Summary		Reset the booking form
//	@Tags			booking
//	@Produce		json
//	@Success		200	{object}	FormStateResponse
//	@Failure		410	{object}	ErrorResponse
//	@Router			/booking/form/reset [post]
func (h *ResetHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := mountedForm(h.app, h.svc, w, r)
	if !ok {
		return
	}
	if err := ctrl.Reset(); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, formState(ctrl.HotelID(), ctrl.RoomID(), ctrl.Snapshot()))
}

// mountedForm resolves the browser session's mounted controller. A session
// with no mounted form answers 410; the client must re-open the booking page.
func mountedForm(a *app.Application, svc *appsvcs.Services, w http.ResponseWriter, r *http.Request) (*appsvcs.FormController, bool) {
	sid, err := a.Sessions.SID(w, r)
	if err != nil {
		errhttp.WriteError(w, err)
		return nil, false
	}
	ctrl, ok := svc.Forms.Get(sid)
	if !ok {
		errhttp.WriteError(w, bookingdomain.ErrControllerDisposed)
		return nil, false
	}
	return ctrl, true
}
