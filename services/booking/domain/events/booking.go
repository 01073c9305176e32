package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingCreated is the Watermill topic published when the backend
// accepts a booking.
const TopicBookingCreated = "booking.created"

// BookingCreatedEvent is published after a successful submission.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicBookingCreated).
type BookingCreatedEvent struct {
	EventID            uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version            int       `json:"version"`  // Schema version; increment on breaking changes
	BookingID          string    `json:"booking_id"`
	ConfirmationNumber string    `json:"confirmation_number"`
	HotelID            string    `json:"hotel_id"`
	RoomID             string    `json:"room_id"`
	UserID             string    `json:"user_id"`
	OccurredAt         time.Time `json:"occurred_at"`
}
