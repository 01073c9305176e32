package restapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrConnectivity indicates the transport failed before any server response
// arrived (DNS failure, refused connection, timeout). Distinct from an
// APIError, which means the server responded and rejected the request.
var ErrConnectivity = errors.New("cannot connect to server")

// APIError is an application-level rejection: the backend responded with a
// non-2xx status or a success=false envelope carrying a message.
type APIError struct {
	Status  int    // HTTP status; 200 for success=false envelopes
	Message string // server-supplied message, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api request failed with status %d", e.Status)
}

// UserMessage normalizes a client error into a single user-facing display
// string, distinguishing connectivity failures from server rejections.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrConnectivity) {
		return "Cannot connect to server. Please check your connection."
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "Unauthorized access. Please log in."
		case http.StatusForbidden:
			return "Access forbidden."
		case http.StatusNotFound:
			return "Resource not found."
		case http.StatusInternalServerError:
			return "Internal server error. Please try again later."
		case http.StatusServiceUnavailable:
			return "Service unavailable. Please try again later."
		default:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return fmt.Sprintf("Error %d from server", apiErr.Status)
		}
	}
	return "Unknown error occurred"
}
