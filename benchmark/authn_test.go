package benchmark

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// Requires a running server with a user alice/password123:
//   authdctl server &
//   authdctl user create alice alice@example.com --password password123

const baseURL = "http://localhost:8000"

func BenchmarkLogin(b *testing.B) {
	body := []byte(`{"username": "alice", "password": "password123"}`)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r, _ := http.NewRequest("POST", baseURL+"/authn/login", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		_, _ = http.DefaultClient.Do(r)
	}
}

func BenchmarkMe(b *testing.B) {
	token := login(b)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r, _ := http.NewRequest("GET", baseURL+"/authn/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		_, _ = http.DefaultClient.Do(r)
	}
}

func login(b *testing.B) string {
	body := []byte(`{"username": "alice", "password": "password123"}`)
	r, _ := http.NewRequest("POST", baseURL+"/authn/login", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		b.Skipf("server not running at %s: %v", baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &result); err != nil || result.AccessToken == "" {
		b.Skipf("login failed: %s", raw)
	}
	return result.AccessToken
}
