package endpoints

import (
	"errors"
	"net/http"

	"github.com/authd/authd/pkg/audit"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/identity"
	"github.com/authd/authd/pkg/password"
	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/middleware"
	"github.com/authd/authd/pkg/server/store"
)

// PasswordChangeRequest is the body of PUT /authn/password
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RegisterPasswordEndpoint registers the authenticated password change endpoint
func RegisterPasswordEndpoint(s *server.Server) {
	usersStore := s.UsersStore

	s.Router.Handle(
		"/authn/password",
		s.TokenMiddleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := config.Get()

			id, ok := identity.Get(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing identity")
				return
			}

			var req PasswordChangeRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "malformed request body")
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

			clientIP := middleware.ClientIP(cfg, r)

			if !password.Verify(req.CurrentPassword, user.HashedPassword) {
				audit.Log(audit.PasswordEvent{
					Username:     user.Username,
					ClientIP:     clientIP,
					Success:      false,
					ErrorMessage: "current password mismatch",
				})
				writeError(w, http.StatusUnauthorized, "current password is incorrect")
				return
			}

			if len(req.NewPassword) < 8 {
				writeValidationErrors(w, map[string]string{
					"new_password": "must be at least 8 characters",
				})
				return
			}

			hashed, err := password.Hash(req.NewPassword, cfg.BcryptCost)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to hash password")
				return
			}

			if err := usersStore.UpdatePassword(user.Username, hashed); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to update password")
				return
			}

			audit.Log(audit.PasswordEvent{
				Username: user.Username,
				ClientIP: clientIP,
				Success:  true,
			})

			w.WriteHeader(http.StatusNoContent)
		})),
	).Methods("PUT")
}
