package clerk

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/config"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

const testKid = "key-1"

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func jwksJSON(key *rsa.PrivateKey) []byte {
	doc := map[string]any{
		"keys": []map[string]string{{
			"kid": testKid,
			"kty": "RSA",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	payload, _ := json.Marshal(doc)
	return payload
}

func signToken(t *testing.T, key *rsa.PrivateKey, subject, sid string, expiry time.Duration) string {
	t.Helper()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID: sid,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testKid
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// newStartedClient serves a JWKS plus any extra routes and returns a ready client.
func newStartedClient(t *testing.T, key *rsa.PrivateKey, cfg Config, extra http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(jwksJSON(key)) //nolint:errcheck
	})
	if extra != nil {
		mux.HandleFunc("/", extra)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg.APIURL = srv.URL
	c := NewClient(cfg, logger.New(&config.Config{LogLevel: "error"}))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case <-c.Ready():
	default:
		t.Fatal("client not ready after Start")
	}
	return c
}

func TestVerifyToken_ResolvesProfile(t *testing.T) {
	key := newTestKey(t)
	c := newStartedClient(t, key, Config{APIKey: "sk_test_x"}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/user_1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_x" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id":"user_1","first_name":"Ada","last_name":"Lovelace","username":"ada",
			"email_addresses":[{"email_address":"ada@example.com"}]
		}`)) //nolint:errcheck
	})

	user, err := c.VerifyToken(context.Background(), signToken(t, key, "user_1", "", time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != "user_1" || user.FirstName != "Ada" {
		t.Errorf("identity = %+v", user)
	}
	if user.PrimaryEmail() != "ada@example.com" {
		t.Errorf("primary email = %q", user.PrimaryEmail())
	}
}

func TestVerifyToken_Rejections(t *testing.T) {
	key := newTestKey(t)
	other := newTestKey(t)
	c := newStartedClient(t, key, Config{}, nil)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"wrong key", signToken(t, other, "user_1", "", time.Minute)},
		{"expired", signToken(t, key, "user_1", "", -time.Minute)},
		{"no subject", signToken(t, key, "", "", time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.VerifyToken(context.Background(), tt.token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHostedURLs(t *testing.T) {
	c := NewClient(Config{FrontendURL: "https://accounts.example.com/"}, logger.New(&config.Config{LogLevel: "error"}))

	got := c.SignInURL("/hotel/h1/rooms")
	want := "https://accounts.example.com/sign-in?redirect_url=%2Fhotel%2Fh1%2Frooms"
	if got != want {
		t.Errorf("sign-in url = %q, want %q", got, want)
	}
	if !strings.HasPrefix(c.SignUpURL(""), "https://accounts.example.com/sign-up") {
		t.Errorf("sign-up url = %q", c.SignUpURL(""))
	}
}

func TestRevokeSession_CallsProvider(t *testing.T) {
	key := newTestKey(t)
	var revoked string
	c := newStartedClient(t, key, Config{APIKey: "sk_test_x"}, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/revoke") {
			revoked = r.URL.Path
		}
		w.Write([]byte(`{}`)) //nolint:errcheck
	})

	token := signToken(t, key, "user_1", "sess_42", time.Minute)
	if err := c.RevokeSession(context.Background(), token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked != "/sessions/sess_42/revoke" {
		t.Errorf("revoked path = %q", revoked)
	}
}

func signWebhook(secret string, msgID, timestamp string, payload []byte) string {
	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	mac := hmac.New(sha256.New, raw)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("supersecretsigningkey"))
	c := NewClient(Config{WebhookSecret: secret}, logger.New(&config.Config{LogLevel: "error"}))

	payload := []byte(`{"type":"session.ended","data":{"user_id":"user_1"}}`)
	msgID := "msg_1"
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := signWebhook(secret, msgID, ts, payload)

	if err := c.VerifyWebhook(payload, msgID, ts, sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	if err := c.VerifyWebhook([]byte(`{"tampered":true}`), msgID, ts, sig); !errors.Is(err, domain.ErrInvalidWebhookSignature) {
		t.Errorf("tampered payload accepted: %v", err)
	}
	if err := c.VerifyWebhook(payload, msgID, ts, "v1,AAAA"); !errors.Is(err, domain.ErrInvalidWebhookSignature) {
		t.Errorf("forged signature accepted: %v", err)
	}
	old := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	if err := c.VerifyWebhook(payload, msgID, old, signWebhook(secret, msgID, old, payload)); !errors.Is(err, domain.ErrInvalidWebhookSignature) {
		t.Errorf("stale timestamp accepted: %v", err)
	}
}

func TestParseWebhookEvent(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantUserID string
		wantSignIn bool
		wantEvent  bool
	}{
		{"session created", `{"type":"session.created","data":{"user_id":"user_1"}}`, "user_1", true, true},
		{"session ended", `{"type":"session.ended","data":{"user_id":"user_1"}}`, "user_1", false, true},
		{"user updated", `{"type":"user.updated","data":{"id":"user_1","first_name":"Ada"}}`, "user_1", true, true},
		{"unhandled", `{"type":"organization.created","data":{}}`, "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, evt, err := ParseWebhookEvent([]byte(tt.payload))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if userID != tt.wantUserID {
				t.Errorf("userID = %q, want %q", userID, tt.wantUserID)
			}
			if (evt != nil) != tt.wantEvent {
				t.Fatalf("evt = %v, want present=%v", evt, tt.wantEvent)
			}
			if evt != nil && (evt.User != nil) != tt.wantSignIn {
				t.Errorf("evt.User = %v, want signed-in=%v", evt.User, tt.wantSignIn)
			}
		})
	}
}
