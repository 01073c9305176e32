package clerk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// webhookTolerance bounds the accepted clock skew on webhook timestamps.
const webhookTolerance = 5 * time.Minute

// WebhookEvent is one provider notification delivered to the webhook endpoint.
type WebhookEvent struct {
	Type string          `json:"type"` // e.g. "session.created", "session.ended", "user.updated"
	Data json.RawMessage `json:"data"`
}

// VerifyWebhook checks the svix-style signature on a webhook delivery.
// The signed content is "{id}.{timestamp}.{payload}" HMAC-SHA256'd with the
// decoded secret; signatures lists space-separated "v1,<base64>" entries.
func (c *Client) VerifyWebhook(payload []byte, msgID, timestamp, signatures string) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return fmt.Errorf("%w: missing signature headers", domain.ErrInvalidWebhookSignature)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", domain.ErrInvalidWebhookSignature)
	}
	if skew := time.Since(time.Unix(ts, 0)); skew > webhookTolerance || skew < -webhookTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", domain.ErrInvalidWebhookSignature)
	}

	secret, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(c.cfg.WebhookSecret, "whsec_"))
	if err != nil {
		return fmt.Errorf("clerk: decode webhook secret: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	want := mac.Sum(nil)

	for _, entry := range strings.Fields(signatures) {
		parts := strings.SplitN(entry, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(want, got) {
			return nil
		}
	}
	return domain.ErrInvalidWebhookSignature
}

// ParseWebhookEvent maps a verified delivery onto the provider event model.
// Session lifecycle events translate to sign-in/sign-out; user.updated
// republishes the refreshed identity. Unhandled types return ("", nil, nil).
func ParseWebhookEvent(payload []byte) (userID string, evt *domain.ProviderEvent, err error) {
	var hook WebhookEvent
	if err := json.Unmarshal(payload, &hook); err != nil {
		return "", nil, fmt.Errorf("clerk: decode webhook: %w", err)
	}

	switch hook.Type {
	case "session.created":
		var data struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(hook.Data, &data); err != nil {
			return "", nil, fmt.Errorf("clerk: decode %s: %w", hook.Type, err)
		}
		// The identity itself arrives via token verification; the event only
		// marks that a sign-in happened elsewhere.
		return data.UserID, &domain.ProviderEvent{User: &domain.UserIdentity{ID: data.UserID}}, nil

	case "session.ended", "session.removed", "session.revoked":
		var data struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(hook.Data, &data); err != nil {
			return "", nil, fmt.Errorf("clerk: decode %s: %w", hook.Type, err)
		}
		return data.UserID, &domain.ProviderEvent{User: nil}, nil

	case "user.updated":
		var doc userDocument
		if err := json.Unmarshal(hook.Data, &doc); err != nil {
			return "", nil, fmt.Errorf("clerk: decode %s: %w", hook.Type, err)
		}
		return doc.ID, &domain.ProviderEvent{User: identityFromDocument(doc)}, nil

	default:
		return "", nil, nil
	}
}
