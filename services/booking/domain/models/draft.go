package models

// SubmissionState is the lifecycle phase of one booking form submission.
type SubmissionState int

const (
	// Idle: no submission attempted since the last reset.
	Idle SubmissionState = iota
	// Submitting: a create request is in flight.
	Submitting
	// Succeeded: the backend accepted the booking.
	Succeeded
	// Failed: the last submission was rejected or never reached the backend.
	Failed
)

func (s SubmissionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Draft is the mutable state of one mounted booking form. It is a plain data
// holder; concurrency control lives in the owning controller.
type Draft struct {
	Fields  map[string]string
	Touched map[string]bool
	Dirty   bool

	State              SubmissionState
	ConfirmationNumber string
	FailureMessage     string
}

// NewDraft returns an Idle draft seeded with the given field values.
// Seeded values do not count as user edits, so the draft starts clean.
func NewDraft(seed map[string]string) *Draft {
	fields := make(map[string]string, len(seed))
	for k, v := range seed {
		fields[k] = v
	}
	return &Draft{
		Fields:  fields,
		Touched: make(map[string]bool),
		State:   Idle,
	}
}

// SetField records a user edit. The field becomes touched and the draft dirty.
func (d *Draft) SetField(name, value string) {
	d.Fields[name] = value
	d.Touched[name] = true
	d.Dirty = true
}

// TouchAll marks every field touched so validation messages surface for
// fields the user never visited.
func (d *Draft) TouchAll() {
	for name := range d.Fields {
		d.Touched[name] = true
	}
}

// SafeToLeave reports whether navigating away would lose user work.
// An in-flight or accepted submission is safe to leave behind; unsaved
// edits on a form that has not succeeded are not.
func (d *Draft) SafeToLeave() bool {
	switch d.State {
	case Submitting, Succeeded:
		return true
	default:
		return !d.Dirty
	}
}
