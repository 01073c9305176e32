package handlers

import (
	"github.com/codeinozzz/capstone-prog-5-front/services/booking/domain/models"
)

// FormStateResponse is the rendered state of the mounted booking form.
type FormStateResponse struct {
	HotelID            string            `json:"hotelId"`
	RoomID             string            `json:"roomId"`
	Fields             map[string]string `json:"fields"`
	Touched            map[string]bool   `json:"touched"`
	Dirty              bool              `json:"dirty"`
	State              string            `json:"state" example:"idle"`
	ConfirmationNumber string            `json:"confirmationNumber,omitempty"`
	FailureMessage     string            `json:"failureMessage,omitempty"`
} // @name FormStateResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"booking form is no longer active"`
} // @name ErrorResponse

func formState(hotelID, roomID string, draft models.Draft) FormStateResponse {
	return FormStateResponse{
		HotelID:            hotelID,
		RoomID:             roomID,
		Fields:             draft.Fields,
		Touched:            draft.Touched,
		Dirty:              draft.Dirty,
		State:              draft.State.String(),
		ConfirmationNumber: draft.ConfirmationNumber,
		FailureMessage:     draft.FailureMessage,
	}
}
