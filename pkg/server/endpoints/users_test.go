package endpoints

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListUsersEndpoint(t *testing.T) {
	secret := []byte("test-secret-key-for-users")

	t.Run("admin can list users", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterUsersEndpoints(testServer)

		accessToken, err := testServer.Signer.Issue("admin", true)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "username", "email", "hashed_password", "is_active", "is_admin", "created_at",
		}).
			AddRow(1, "admin", "admin@example.com", "x", true, true, now).
			AddRow(2, "alice", "alice@example.com", "x", true, false, now)
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(rows)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		req := httptest.NewRequest("GET", "/users", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result UserListResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if len(result.Users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(result.Users))
		}
		if result.Total != 2 {
			t.Errorf("expected total 2, got %d", result.Total)
		}
		if result.Users[0].Username != "admin" || result.Users[1].Username != "alice" {
			t.Errorf("unexpected user order: %v", result.Users)
		}

		if strings.Contains(w.Body.String(), "hashed_password") {
			t.Error("response must not contain password hashes")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		testServer, _, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterUsersEndpoints(testServer)

		accessToken, err := testServer.Signer.Issue("alice", false)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		req := httptest.NewRequest("GET", "/users", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 403 {
			t.Fatalf("expected status 403, got %d", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		testServer, _, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterUsersEndpoints(testServer)

		req := httptest.NewRequest("GET", "/users", nil)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		testServer, _, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterUsersEndpoints(testServer)

		accessToken, err := testServer.Signer.Issue("admin", true)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		for _, limit := range []string{"0", "-1", "abc"} {
			req := httptest.NewRequest("GET", "/users?limit="+limit, nil)
			req.Header.Set("Authorization", "Bearer "+accessToken)
			w := httptest.NewRecorder()
			testServer.Router.ServeHTTP(w, req)

			if w.Code != 400 {
				t.Errorf("limit=%s: expected status 400, got %d", limit, w.Code)
			}
		}
	})

	t.Run("limit clamped to configured maximum", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterUsersEndpoints(testServer)

		accessToken, err := testServer.Signer.Issue("admin", true)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		mock.ExpectQuery(`SELECT .* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		req := httptest.NewRequest("GET", "/users?limit=999999", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result UserListResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.Limit != testServer.Config.UserListLimitMax {
			t.Errorf("expected limit %d, got %d", testServer.Config.UserListLimitMax, result.Limit)
		}
	})
}

func TestSetUserActiveEndpoint(t *testing.T) {
	secret := []byte("test-secret-key-for-users")

	newServer := func(t *testing.T) (*MockDB, func(token, username, body string) *httptest.ResponseRecorder) {
		t.Helper()
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}
		RegisterUsersEndpoints(testServer)

		adminToken, err := testServer.Signer.Issue("admin", true)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		mockDB := &MockDB{Mock: mock}
		do := func(token, username, body string) *httptest.ResponseRecorder {
			if token == "admin" {
				token = adminToken
			}
			req := httptest.NewRequest("PUT", "/users/"+username+"/active", strings.NewReader(body))
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			w := httptest.NewRecorder()
			testServer.Router.ServeHTTP(w, req)
			return w
		}
		return mockDB, do
	}

	t.Run("deactivate user", func(t *testing.T) {
		mockDB, do := newServer(t)
		mockDB.ExpectUserUpdate()

		w := do("admin", "alice", `{"active": false}`)
		if w.Code != 204 {
			t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
		}

		if err := mockDB.VerifyExpectations(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("reactivate user", func(t *testing.T) {
		mockDB, do := newServer(t)
		mockDB.ExpectUserUpdate()

		w := do("admin", "alice", `{"active": true}`)
		if w.Code != 204 {
			t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		mockDB, do := newServer(t)
		mockDB.ExpectUserUpdateNoMatch()

		w := do("admin", "ghost", `{"active": false}`)
		if w.Code != 404 {
			t.Fatalf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("missing active field", func(t *testing.T) {
		_, do := newServer(t)

		w := do("admin", "alice", `{}`)
		if w.Code != 400 {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		_, do := newServer(t)

		w := do("", "alice", `{"active": false}`)
		if w.Code != 401 {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})
}
