package endpoints

import (
	"errors"
	"net/http"

	"github.com/authd/authd/pkg/identity"
	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/store"
)

// RegisterMeEndpoint registers the authenticated whoami endpoint
func RegisterMeEndpoint(s *server.Server) {
	usersStore := s.UsersStore

	s.Router.Handle(
		"/authn/me",
		s.TokenMiddleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing identity")
				return
			}

			user, err := usersStore.UserByUsername(id.Username)
			if err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					writeError(w, http.StatusNotFound, "user not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to load user")
				return
			}

			// Tokens outlive account state. A user deactivated after login
			// keeps a valid token but loses access here.
			if !user.IsActive {
				writeError(w, http.StatusUnauthorized, "user is inactive")
				return
			}

			writeJSON(w, http.StatusOK, newUserResponse(user))
		})),
	).Methods("GET")
}
