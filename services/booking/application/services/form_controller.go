// Package services hosts the booking form controller, the server-side state
// machine behind the booking page. One controller exists per mounted form
// (per browser session); it owns the draft, validates before any network
// call, and drives the Idle → Submitting → Succeeded/Failed lifecycle.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	pkgvalidator "github.com/codeinozzz/capstone-prog-5-front/pkg/validator"
	bookingdomain "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain"
	bookingevents "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/events"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/models"
	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// isoDate is the wire format for calendar dates. Inputs are normalized to it
// before transmission so a local-midnight input never shifts a day.
const isoDate = "2006-01-02"

// BookingCreator is the backend capability the controller submits through.
type BookingCreator interface {
	Create(ctx context.Context, token string, req models.CreateBookingRequest) (*models.Booking, error)
}

// EventPublisher is the slice of the event bus the controller uses.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ValidationError carries per-field messages for a draft that failed
// preconditions. It unwraps to domain.ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d fields)", bookingdomain.ErrValidation, len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return bookingdomain.ErrValidation }

// submitPayload is the validated shape of a draft at submit time.
type submitPayload struct {
	HotelID   string `json:"hotelId" validate:"required"`
	RoomID    string `json:"roomId" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required,e164"`
	Email     string `json:"email" validate:"required,email"`
	CheckIn   string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut  string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests    int    `json:"guests" validate:"gte=1,lte=10"`
}

// FormController is the per-form state machine. All methods are safe for
// concurrent use; the backend call in Submit runs outside the lock so field
// edits and snapshots never block on the network.
type FormController struct {
	hotelID string
	roomID  string
	user    *identitydomain.UserIdentity

	client BookingCreator
	bus    EventPublisher
	log    logger.Logger

	mu       sync.Mutex
	draft    *models.Draft
	disposed bool
}

// NewFormController returns an Idle controller seeded from the authenticated
// user's identity. user may be nil; the draft then starts empty.
func NewFormController(hotelID, roomID string, user *identitydomain.UserIdentity, client BookingCreator, bus EventPublisher, log logger.Logger) *FormController {
	c := &FormController{
		hotelID: hotelID,
		roomID:  roomID,
		user:    user,
		client:  client,
		bus:     bus,
		log:     log,
	}
	c.draft = models.NewDraft(c.seed())
	return c
}

func (c *FormController) seed() map[string]string {
	seed := map[string]string{
		"firstName": "",
		"lastName":  "",
		"phone":     "",
		"email":     "",
		"checkIn":   "",
		"checkOut":  "",
		"guests":    "1",
	}
	if c.user != nil {
		seed["firstName"] = c.user.FirstName
		seed["lastName"] = c.user.LastName
		seed["email"] = c.user.PrimaryEmail()
	}
	return seed
}

// HotelID is the hotel this form books.
func (c *FormController) HotelID() string { return c.hotelID }

// RoomID is the room this form books.
func (c *FormController) RoomID() string { return c.roomID }

// UpdateField records a user edit, marking the field touched and the draft dirty.
func (c *FormController) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return bookingdomain.ErrControllerDisposed
	}
	if c.draft.State == models.Submitting {
		return bookingdomain.ErrSubmitInFlight
	}
	c.draft.SetField(name, value)
	return nil
}

// Snapshot returns a copy of the current draft for rendering.
func (c *FormController) Snapshot() models.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := *c.draft
	snap.Fields = make(map[string]string, len(c.draft.Fields))
	for k, v := range c.draft.Fields {
		snap.Fields[k] = v
	}
	snap.Touched = make(map[string]bool, len(c.draft.Touched))
	for k, v := range c.draft.Touched {
		snap.Touched[k] = v
	}
	return snap
}

// Submit validates the draft and, if it passes, sends it to the backend.
//
// Validation failure marks every field touched and returns a ValidationError
// without any network traffic. On success the controller transitions to
// Submitting for the duration of the call, then to Succeeded (recording the
// confirmation number and clearing the dirty flag) or Failed (recording a
// message that distinguishes an unreachable backend from a rejection).
// A response that arrives after Dispose is discarded.
func (c *FormController) Submit(ctx context.Context, token string) (*models.Booking, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, bookingdomain.ErrControllerDisposed
	}
	if c.draft.State == models.Submitting {
		c.mu.Unlock()
		return nil, bookingdomain.ErrSubmitInFlight
	}

	payload, verr := c.buildPayloadLocked()
	if verr != nil {
		c.draft.TouchAll()
		c.mu.Unlock()
		return nil, verr
	}

	c.draft.State = models.Submitting
	c.draft.FailureMessage = ""
	c.mu.Unlock()

	booking, err := c.client.Create(ctx, token, models.CreateBookingRequest{
		HotelID:   payload.HotelID,
		RoomID:    payload.RoomID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Email:     payload.Email,
		CheckIn:   payload.CheckIn,
		CheckOut:  payload.CheckOut,
		Guests:    payload.Guests,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		// The form was unmounted while the request was in flight.
		return nil, bookingdomain.ErrControllerDisposed
	}

	if err != nil {
		c.draft.State = models.Failed
		c.draft.FailureMessage = restapi.UserMessage(err)
		return nil, err
	}

	c.draft.State = models.Succeeded
	c.draft.ConfirmationNumber = booking.ConfirmationNumber
	c.draft.Dirty = false
	c.publishCreated(ctx, booking)
	return booking, nil
}

// buildPayloadLocked assembles and validates the submit payload from the
// draft. Caller holds c.mu.
func (c *FormController) buildPayloadLocked() (*submitPayload, error) {
	fields := make(map[string]string)
	for name, value := range c.draft.Fields {
		fields[name] = value
	}

	checkIn, errIn := normalizeDate(fields["checkIn"])
	checkOut, errOut := normalizeDate(fields["checkOut"])
	guests, _ := strconv.Atoi(fields["guests"])

	payload := &submitPayload{
		HotelID:   c.hotelID,
		RoomID:    c.roomID,
		FirstName: fields["firstName"],
		LastName:  fields["lastName"],
		Phone:     fields["phone"],
		Email:     fields["email"],
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    guests,
	}

	fieldErrs := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(payload))
	if errIn != nil {
		fieldErrs["checkIn"] = "Must be a valid date in YYYY-MM-DD format"
	}
	if errOut != nil {
		fieldErrs["checkOut"] = "Must be a valid date in YYYY-MM-DD format"
	}
	if errIn == nil && errOut == nil && checkIn != "" && checkOut <= checkIn {
		fieldErrs["checkOut"] = "Check-out date must be after check-in date"
	}
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}
	return payload, nil
}

// Reset returns the form to Idle with an empty draft re-seeded from the
// user's identity. Calling it repeatedly has no further effect.
func (c *FormController) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return bookingdomain.ErrControllerDisposed
	}
	if c.draft.State == models.Submitting {
		return bookingdomain.ErrSubmitInFlight
	}
	c.draft = models.NewDraft(c.seed())
	return nil
}

// SafeToLeave implements the deactivation verdict for the mounted form.
func (c *FormController) SafeToLeave() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.SafeToLeave()
}

// Dispose marks the controller unmounted. Subsequent operations fail with
// ErrControllerDisposed and an in-flight submission's response is discarded.
func (c *FormController) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
}

func (c *FormController) publishCreated(ctx context.Context, booking *models.Booking) {
	if c.bus == nil {
		return
	}
	userID := ""
	if c.user != nil {
		userID = c.user.ID
	}
	evt := bookingevents.BookingCreatedEvent{
		EventID:            uuid.New(),
		Version:            1,
		BookingID:          booking.ID,
		ConfirmationNumber: booking.ConfirmationNumber,
		HotelID:            c.hotelID,
		RoomID:             c.roomID,
		UserID:             userID,
		OccurredAt:         time.Now().UTC(),
	}
	msg, err := eventMessage(evt)
	if err != nil {
		c.log.ErrorContext(ctx, "encode booking.created event", "error", err)
		return
	}
	if err := c.bus.Publish(ctx, bookingevents.TopicBookingCreated, msg); err != nil {
		c.log.ErrorContext(ctx, "publish booking.created event", "error", err)
	}
}

func eventMessage(evt bookingevents.BookingCreatedEvent) (*message.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return message.NewMessage(evt.EventID.String(), payload), nil
}

// normalizeDate accepts a calendar date or a local-midnight timestamp and
// returns the bare YYYY-MM-DD. The date's own fields are kept as written, so
// no timezone conversion can shift the day.
func normalizeDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	for _, layout := range []string{isoDate, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
