package endpoints

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/authd/authd/pkg/password"
)

func TestMeEndpoint(t *testing.T) {
	secret := []byte("test-secret-key-for-me")

	hashed, err := password.Hash("some-password", bcrypt.MinCost)
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

	t.Run("valid token", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterMeEndpoint(testServer)

		accessToken, err := testServer.Signer.Issue("alice", false)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		mockDB := &MockDB{Mock: mock}
		mockDB.ExpectUserQuery(aliceRow)

		req := httptest.NewRequest("GET", "/authn/me", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result UserResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.Username != "alice" {
			t.Errorf("expected username 'alice', got %q", result.Username)
		}
		if result.Email != "alice@example.com" {
			t.Errorf("expected email 'alice@example.com', got %q", result.Email)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("user no longer exists", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterMeEndpoint(testServer)

		accessToken, err := testServer.Signer.Issue("ghost", false)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		mockDB := &MockDB{Mock: mock}
		mockDB.ExpectUserNotFound()

		req := httptest.NewRequest("GET", "/authn/me", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 404 {
			t.Fatalf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("deactivated after token issued", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterMeEndpoint(testServer)

		accessToken, err := testServer.Signer.Issue("alice", false)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		inactive := aliceRow
		inactive.IsActive = false
		mockDB := &MockDB{Mock: mock}
		mockDB.ExpectUserQuery(inactive)

		req := httptest.NewRequest("GET", "/authn/me", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		testServer, _, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterMeEndpoint(testServer)

		req := httptest.NewRequest("GET", "/authn/me", nil)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		testServer, _, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterMeEndpoint(testServer)

		req := httptest.NewRequest("GET", "/authn/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})
}
