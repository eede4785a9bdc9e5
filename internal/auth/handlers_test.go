package auth

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dungeonmaze/server/internal/config"
)

func testAuthHandlers() *AuthHandlers {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-jwt-secret",
			JWTExpiration:     15 * time.Minute,
			RefreshSecret:     "test-refresh-secret",
			RefreshExpiration: 7 * 24 * time.Hour,
			BCryptCost:        10,
		},
	}
	// Register's validation runs before any database access, so handlers
	// built without a database are fine for rejection tests.
	return NewAuthHandlers(nil, NewJWTService(cfg), NewPasswordService(cfg))
}

func TestValidUsernameChars(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"torchbearer", true},
		{"Player_One", true},
		{"dash-name-9", true},
		{"bad name", false},
		{"nope!", false},
		{"semi;colon", false},
		{"Ünicode", false},
	}

	for _, tt := range tests {
		if got := validUsernameChars(tt.username); got != tt.want {
			t.Errorf("validUsernameChars(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestRegisterRejectsInvalidUsernameCharacters(t *testing.T) {
	handlers := testAuthHandlers()

	for _, username := range []string{"bad name", "nope!", "semi;colon"} {
		t.Run(username, func(t *testing.T) {
			body, err := json.Marshal(RegisterRequest{
				Username: username,
				Email:    "player@example.com",
				Password: "Str0ng!pass",
			})
			if err != nil {
				t.Fatalf("marshal request: %v", err)
			}

			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handlers.Register(w, req)

			if w.Code != 400 {
				t.Fatalf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Code != "InvalidUsername" {
				t.Errorf("Expected error code InvalidUsername, got %q", resp.Code)
			}
		})
	}
}
