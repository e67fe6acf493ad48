package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/authd/authd/pkg/audit"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/model"
	"github.com/authd/authd/pkg/password"
	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/middleware"
	"github.com/authd/authd/pkg/server/store"
)

// SignupRequest is the body of POST /authn/signup
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateSignup(req SignupRequest) map[string]string {
	fieldErrors := map[string]string{}

	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 64 {
		fieldErrors["username"] = "must be between 3 and 64 characters"
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		fieldErrors["email"] = "must be a valid email address"
	}

	if len(req.Password) < 8 {
		fieldErrors["password"] = "must be at least 8 characters"
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// RegisterSignupEndpoint registers the public signup endpoint
func RegisterSignupEndpoint(s *server.Server) {
	usersStore := s.UsersStore

	s.Router.HandleFunc(
		"/authn/signup",
		func(w http.ResponseWriter, r *http.Request) {
			// Read the config per request so a reload takes effect
			// without restarting the server.
			cfg := config.Get()

			if !cfg.IsSignupEnabled() {
				writeError(w, http.StatusForbidden, "signup is disabled")
				return
			}

			var req SignupRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "malformed request body")
				return
			}

			if fieldErrors := validateSignup(req); fieldErrors != nil {
				writeValidationErrors(w, fieldErrors)
				return
			}

			clientIP := middleware.ClientIP(cfg, r)

			hashed, err := password.Hash(req.Password, cfg.BcryptCost)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to hash password")
				return
			}

			user := &model.User{
				Username:       strings.TrimSpace(req.Username),
				Email:          strings.TrimSpace(req.Email),
				HashedPassword: hashed,
				IsActive:       true,
			}

			if err := usersStore.CreateUser(user); err != nil {
				if errors.Is(err, store.ErrDuplicateUser) {
					audit.Log(audit.SignupEvent{
						Username:     user.Username,
						Email:        user.Email,
						ClientIP:     clientIP,
						Success:      false,
						ErrorMessage: "duplicate username or email",
					})
					writeError(w, http.StatusConflict, store.ErrDuplicateUser.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to create user")
				return
			}

			audit.Log(audit.SignupEvent{
				Username: user.Username,
				Email:    user.Email,
				ClientIP: clientIP,
				Success:  true,
			})

			writeJSON(w, http.StatusCreated, newUserResponse(user))
		},
	).Methods("POST")
}
