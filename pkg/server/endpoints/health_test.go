package endpoints

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	secret := []byte("test-secret-key-for-health")

	t.Run("database reachable", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}

		RegisterHealthEndpoint(testServer)

		mockDB := &MockDB{Mock: mock}
		mockDB.ExpectHealthCheck()

		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result HealthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.Status != "healthy" {
			t.Errorf("expected status 'healthy', got %q", result.Status)
		}
		if result.Message != "authd is running" {
			t.Errorf("unexpected message: %q", result.Message)
		}
		if result.Timestamp == "" {
			t.Error("expected timestamp to be set")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
	})

	t.Run("database unreachable", func(t *testing.T) {
		testServer, mock, err := NewMockTestServer(secret)
		if err != nil {
			t.Fatalf("failed to create mock test server: %v", err)
		}

		RegisterHealthEndpoint(testServer)

		mockDB := &MockDB{Mock: mock}
		mockDB.ExpectHealthCheckFailure()

		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)

		if w.Code != 503 {
			t.Fatalf("expected status 503, got %d: %s", w.Code, w.Body.String())
		}

		var result HealthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.Status != "unhealthy" {
			t.Errorf("expected status 'unhealthy', got %q", result.Status)
		}
		if result.Message != "database is unreachable" {
			t.Errorf("unexpected message: %q", result.Message)
		}
	})
}
