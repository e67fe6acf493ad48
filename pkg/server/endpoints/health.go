package endpoints

import (
	"net/http"
	"time"

	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/store"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// RegisterHealthEndpoint registers the health check endpoint
func RegisterHealthEndpoint(s *server.Server) {
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timestamp := time.Now().Format(time.RFC3339)

		if err := healthStore.CheckConnectivity(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:    "unhealthy",
				Timestamp: timestamp,
				Message:   "database is unreachable",
			})
			return
		}

		writeJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: timestamp,
			Message:   "authd is running",
		})
	}
}
