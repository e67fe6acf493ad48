package endpoints

import (
	"github.com/authd/authd/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterHealthEndpoint(srv)
	RegisterSignupEndpoint(srv)
	RegisterLoginEndpoint(srv)
	RegisterMeEndpoint(srv)
	RegisterPasswordEndpoint(srv)
	RegisterUsersEndpoints(srv)
}
