package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/config"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/restapi"
	bookingdomain "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain"
	bookingevents "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/events"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/models"
	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// fakeCreator scripts the backend's answer to Create.
type fakeCreator struct {
	mu      sync.Mutex
	calls   int
	lastReq models.CreateBookingRequest
	booking *models.Booking
	err     error
	release chan struct{} // when set, Create blocks until closed
}

func (f *fakeCreator) Create(ctx context.Context, _ string, req models.CreateBookingRequest) (*models.Booking, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

func (f *fakeCreator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeBus captures published topics.
type fakeBus struct {
	mu     sync.Mutex
	topics []string
}

func (f *fakeBus) Publish(_ context.Context, topic string, _ ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	return nil
}

func (f *fakeBus) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.topics...)
}

func testUser() *identitydomain.UserIdentity {
	return &identitydomain.UserIdentity{
		ID:        "user_1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		EmailAddresses: []identitydomain.EmailAddress{
			{EmailAddress: "ada@example.com"},
		},
	}
}

func newTestController(creator BookingCreator, bus EventPublisher) *FormController {
	log := logger.New(&config.Config{LogLevel: "error"})
	return NewFormController("h1", "r1", testUser(), creator, bus, log)
}

func fillValidDraft(t *testing.T, c *FormController) {
	t.Helper()
	for name, value := range map[string]string{
		"phone":    "+15550100",
		"checkIn":  "2026-09-10",
		"checkOut": "2026-09-12",
		"guests":   "2",
	} {
		if err := c.UpdateField(name, value); err != nil {
			t.Fatalf("update %s: %v", name, err)
		}
	}
}

func TestNewController_SeedsFromIdentity(t *testing.T) {
	c := newTestController(&fakeCreator{}, &fakeBus{})
	snap := c.Snapshot()

	if snap.Fields["firstName"] != "Ada" || snap.Fields["lastName"] != "Lovelace" {
		t.Errorf("name not seeded: %q %q", snap.Fields["firstName"], snap.Fields["lastName"])
	}
	if snap.Fields["email"] != "ada@example.com" {
		t.Errorf("email not seeded: %q", snap.Fields["email"])
	}
	if snap.Dirty {
		t.Error("seeded draft must start clean")
	}
	if snap.State != models.Idle {
		t.Errorf("state = %v, want Idle", snap.State)
	}
}

func TestUpdateField_MarksDirtyAndTouched(t *testing.T) {
	c := newTestController(&fakeCreator{}, &fakeBus{})
	if err := c.UpdateField("checkIn", "2026-09-10"); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap := c.Snapshot()
	if !snap.Dirty || !snap.Touched["checkIn"] {
		t.Errorf("dirty=%v touched=%v, want both true", snap.Dirty, snap.Touched["checkIn"])
	}
	if c.SafeToLeave() {
		t.Error("dirty idle form must not be safe to leave")
	}
}

// TestSubmit_ValidationFailureMakesNoNetworkCall covers the precondition
// path: an incomplete draft is rejected locally with every field touched.
func TestSubmit_ValidationFailureMakesNoNetworkCall(t *testing.T) {
	creator := &fakeCreator{}
	c := newTestController(creator, &fakeBus{})
	if err := c.UpdateField("email", "not-an-email"); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := c.Submit(context.Background(), "tok")
	if !errors.Is(err, bookingdomain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Fields["email"] == "" || verr.Fields["checkIn"] == "" || verr.Fields["phone"] == "" {
		t.Errorf("missing field messages: %v", verr.Fields)
	}
	if creator.callCount() != 0 {
		t.Errorf("backend called %d times on validation failure", creator.callCount())
	}

	snap := c.Snapshot()
	if !snap.Touched["checkOut"] {
		t.Error("validation failure must touch every field")
	}
	if snap.State != models.Idle {
		t.Errorf("state = %v, want Idle", snap.State)
	}
}

func TestSubmit_CheckOutMustFollowCheckIn(t *testing.T) {
	c := newTestController(&fakeCreator{}, &fakeBus{})
	fillValidDraft(t, c)
	if err := c.UpdateField("checkOut", "2026-09-10"); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := c.Submit(context.Background(), "tok")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["checkOut"] == "" {
		t.Errorf("expected checkOut message, got %v", verr.Fields)
	}
}

// TestSubmit_Success walks the full happy path: Submitting → Succeeded with
// confirmation number recorded, dirty flag cleared, event published, and the
// form safe to leave even though it was dirty a moment before.
func TestSubmit_Success(t *testing.T) {
	creator := &fakeCreator{booking: &models.Booking{ID: "b1", ConfirmationNumber: "AB1234"}}
	bus := &fakeBus{}
	c := newTestController(creator, bus)
	fillValidDraft(t, c)

	booking, err := c.Submit(context.Background(), "tok")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if booking.ConfirmationNumber != "AB1234" {
		t.Errorf("confirmation = %q, want AB1234", booking.ConfirmationNumber)
	}

	snap := c.Snapshot()
	if snap.State != models.Succeeded {
		t.Errorf("state = %v, want Succeeded", snap.State)
	}
	if snap.ConfirmationNumber != "AB1234" {
		t.Errorf("draft confirmation = %q, want AB1234", snap.ConfirmationNumber)
	}
	if snap.Dirty {
		t.Error("successful submission must clear the dirty flag")
	}
	if !c.SafeToLeave() {
		t.Error("succeeded form must be safe to leave")
	}
	if got := bus.published(); len(got) != 1 || got[0] != bookingevents.TopicBookingCreated {
		t.Errorf("published topics = %v, want [%s]", got, bookingevents.TopicBookingCreated)
	}
}

// TestSubmit_FailureMessages distinguishes an unreachable backend from an
// application rejection in the message shown to the user.
func TestSubmit_FailureMessages(t *testing.T) {
	tests := []struct {
		name        string
		backendErr  error
		wantMessage string
	}{
		{
			name:        "connectivity failure",
			backendErr:  restapi.ErrConnectivity,
			wantMessage: "Cannot connect to server. Please check your connection.",
		},
		{
			name:        "application rejection",
			backendErr:  &restapi.APIError{Status: 400, Message: "Room is no longer available"},
			wantMessage: "Room is no longer available",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeCreator{err: tt.backendErr}, &fakeBus{})
			fillValidDraft(t, c)

			if _, err := c.Submit(context.Background(), "tok"); err == nil {
				t.Fatal("expected submit to fail")
			}
			snap := c.Snapshot()
			if snap.State != models.Failed {
				t.Errorf("state = %v, want Failed", snap.State)
			}
			if snap.FailureMessage != tt.wantMessage {
				t.Errorf("message = %q, want %q", snap.FailureMessage, tt.wantMessage)
			}
		})
	}
}

// TestSubmit_InFlightIsSafeToLeaveAndExclusive covers the Submitting verdict
// and the single-flight precondition.
func TestSubmit_InFlightIsSafeToLeaveAndExclusive(t *testing.T) {
	release := make(chan struct{})
	creator := &fakeCreator{
		booking: &models.Booking{ConfirmationNumber: "AB1234"},
		release: release,
	}
	c := newTestController(creator, &fakeBus{})
	fillValidDraft(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "tok")
		done <- err
	}()

	waitForState(t, c, models.Submitting)
	if !c.SafeToLeave() {
		t.Error("in-flight submission must be safe to leave")
	}
	if _, err := c.Submit(context.Background(), "tok"); !errors.Is(err, bookingdomain.ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if creator.callCount() != 1 {
		t.Errorf("backend called %d times, want 1", creator.callCount())
	}
}

// TestSubmit_LateResponseAfterDisposeIsNoOp verifies a response arriving
// after the form was unmounted does not resurrect the draft.
func TestSubmit_LateResponseAfterDisposeIsNoOp(t *testing.T) {
	release := make(chan struct{})
	creator := &fakeCreator{
		booking: &models.Booking{ConfirmationNumber: "AB1234"},
		release: release,
	}
	bus := &fakeBus{}
	c := newTestController(creator, bus)
	fillValidDraft(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "tok")
		done <- err
	}()
	waitForState(t, c, models.Submitting)

	c.Dispose()
	close(release)

	if err := <-done; !errors.Is(err, bookingdomain.ErrControllerDisposed) {
		t.Fatalf("expected ErrControllerDisposed, got %v", err)
	}
	if got := bus.published(); len(got) != 0 {
		t.Errorf("disposed controller published %v", got)
	}
	if err := c.UpdateField("guests", "3"); !errors.Is(err, bookingdomain.ErrControllerDisposed) {
		t.Errorf("expected ErrControllerDisposed on edit, got %v", err)
	}
}

// TestReset_Idempotent verifies reset restores the seeded pristine draft and
// repeating it changes nothing.
func TestReset_Idempotent(t *testing.T) {
	c := newTestController(&fakeCreator{booking: &models.Booking{ConfirmationNumber: "AB1234"}}, &fakeBus{})
	fillValidDraft(t, c)
	if _, err := c.Submit(context.Background(), "tok"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := c.Reset(); err != nil {
			t.Fatalf("reset %d: %v", i+1, err)
		}
		snap := c.Snapshot()
		if snap.State != models.Idle {
			t.Errorf("reset %d: state = %v, want Idle", i+1, snap.State)
		}
		if snap.Dirty || len(snap.Touched) != 0 {
			t.Errorf("reset %d: dirty=%v touched=%v, want clean", i+1, snap.Dirty, snap.Touched)
		}
		if snap.Fields["firstName"] != "Ada" || snap.Fields["email"] != "ada@example.com" {
			t.Errorf("reset %d: identity seed lost: %v", i+1, snap.Fields)
		}
		if snap.Fields["checkIn"] != "" || snap.ConfirmationNumber != "" {
			t.Errorf("reset %d: previous submission leaked: %v", i+1, snap)
		}
	}
}

// TestNormalizeDate_NoTimezoneShift verifies a local-midnight timestamp keeps
// its calendar date on the wire.
func TestNormalizeDate_NoTimezoneShift(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-09-10", "2026-09-10"},
		{"2026-09-10T00:00:00Z", "2026-09-10"},
		{"2026-09-10T00:00:00-05:00", "2026-09-10"},
		{"2026-09-10T00:00:00", "2026-09-10"},
		{"2026-12-31T00:00:00+13:00", "2026-12-31"},
	}
	for _, tt := range tests {
		got, err := normalizeDate(tt.in)
		if err != nil {
			t.Errorf("normalizeDate(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := normalizeDate("10/09/2026"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

// TestSubmit_SendsNormalizedDates verifies the wire payload carries bare
// calendar dates even when the draft holds timestamps.
func TestSubmit_SendsNormalizedDates(t *testing.T) {
	creator := &fakeCreator{booking: &models.Booking{ConfirmationNumber: "AB1234"}}
	c := newTestController(creator, &fakeBus{})
	for name, value := range map[string]string{
		"phone":    "+15550100",
		"checkIn":  "2026-09-10T00:00:00-05:00",
		"checkOut": "2026-09-12T00:00:00-05:00",
		"guests":   "2",
	} {
		if err := c.UpdateField(name, value); err != nil {
			t.Fatalf("update %s: %v", name, err)
		}
	}

	if _, err := c.Submit(context.Background(), "tok"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	creator.mu.Lock()
	defer creator.mu.Unlock()
	if creator.lastReq.CheckIn != "2026-09-10" || creator.lastReq.CheckOut != "2026-09-12" {
		t.Errorf("dates on wire = %q/%q, want 2026-09-10/2026-09-12",
			creator.lastReq.CheckIn, creator.lastReq.CheckOut)
	}
}

func waitForState(t *testing.T, c *FormController, want models.SubmissionState) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if c.Snapshot().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("controller never reached state %v", want)
}
