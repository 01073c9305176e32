package services

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/app"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/events"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	bookingevents "github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/events"
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/infrastructure/backend"
)

// Services is the application-layer service container for this bounded context.
// It wires the form controllers with the backend booking client.
type Services struct {
	Forms    *FormManager
	Bookings *backend.Client
}

// New wires the booking application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	client := backend.NewClient(a.Backend)
	return &Services{
		Forms:    NewFormManager(client, a.EventBus, a.Logger),
		Bookings: client,
	}
}

// SubscribeConfirmationLog registers an in-process consumer that records
// every accepted booking for audit purposes.
func SubscribeConfirmationLog(ctx context.Context, bus *events.EventBus, log logger.Logger) error {
	errCh, err := bus.Subscribe(ctx, bookingevents.TopicBookingCreated, func(ctx context.Context, msg *message.Message) error {
		var evt bookingevents.BookingCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		log.InfoContext(ctx, "booking confirmed",
			"booking_id", evt.BookingID,
			"confirmation_number", evt.ConfirmationNumber,
			"hotel_id", evt.HotelID,
			"room_id", evt.RoomID,
			"user_id", evt.UserID,
		)
		return nil
	})
	if err != nil {
		return err
	}
	go func() {
		for err := range errCh {
			log.Error("booking event subscriber", "error", err)
		}
	}()
	return nil
}
