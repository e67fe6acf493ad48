package endpoints

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/authd/authd/pkg/password"
)

func TestLoginEndpoint(t *testing.T) {
	secret := []byte("test-secret-key-for-login")

	hashed, err := password.Hash("correct-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	aliceRow := UserRow{
		ID:             1,
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: hashed,
		IsActive:       true,
		IsAdmin:        false,
		CreatedAt:      time.Now(),
	}

	newServer := func(t *testing.T) (*MockDB, func(body string) *httptest.ResponseRecorder) {
		t.Helper()
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterLoginEndpoint(testServer)

		mockDB := &MockDB{Mock: mock}
		do := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("POST", "/authn/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			testServer.Router.ServeHTTP(w, req)
			return w
		}
		return mockDB, do
	}

	t.Run("valid credentials", func(t *testing.T) {
		mockDB, do := newServer(t)
		mockDB.ExpectUserQuery(aliceRow)

		w := do(`{"username": "alice", "password": "correct-password"}`)
		if w.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result TokenResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.AccessToken == "" {
			t.Error("expected access_token to be set")
		}
		if result.TokenType != "bearer" {
			t.Errorf("expected token_type 'bearer', got %q", result.TokenType)
		}
		if result.ExpiresIn != 30*60 {
			t.Errorf("expected expires_in 1800, got %d", result.ExpiresIn)
		}

		if err := mockDB.VerifyExpectations(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		mockDB, do := newServer(t)
		mockDB.ExpectUserQuery(aliceRow)

		w := do(`{"username": "alice", "password": "wrong-password"}`)
		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		mockDB, do := newServer(t)
		mockDB.ExpectUserNotFound()

		w := do(`{"username": "nobody", "password": "whatever-password"}`)
		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		mockDB, do := newServer(t)
		inactive := aliceRow
		inactive.IsActive = false
		mockDB.ExpectUserQuery(inactive)

		w := do(`{"username": "alice", "password": "correct-password"}`)
		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("failure responses are identical", func(t *testing.T) {
		mockDB, do := newServer(t)

		mockDB.ExpectUserQuery(aliceRow)
		wrongPassword := do(`{"username": "alice", "password": "wrong-password"}`)

		mockDB.ExpectUserNotFound()
		unknownUser := do(`{"username": "nobody", "password": "wrong-password"}`)

		if wrongPassword.Body.String() != unknownUser.Body.String() {
			t.Errorf("failure bodies differ: %q vs %q",
				wrongPassword.Body.String(), unknownUser.Body.String())
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, do := newServer(t)

		w := do(`{"username": "", "password": ""}`)
		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		_, do := newServer(t)

		w := do(`{not json`)
		if w.Code != 400 {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})
}
