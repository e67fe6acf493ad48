package endpoints

import (
	"errors"
	"net/http"

	"github.com/authd/authd/pkg/audit"
	"github.com/authd/authd/pkg/authenticator"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/middleware"
)

// LoginRequest is the body of POST /authn/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RegisterLoginEndpoint registers the password login endpoint
func RegisterLoginEndpoint(s *server.Server) {
	registry := s.Authenticators
	signer := s.Signer

	s.Router.HandleFunc(
		"/authn/login",
		func(w http.ResponseWriter, r *http.Request) {
			var req LoginRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "malformed request body")
				return
			}

			clientIP := middleware.ClientIP(config.Get(), r)

			auth, ok := registry.Get("local")
			if !ok || !registry.IsEnabled("local") {
				writeError(w, http.StatusInternalServerError, "authenticator not available")
				return
			}

			user, err := auth.Authenticate(r.Context(), authenticator.Input{
				Username: req.Username,
				Password: req.Password,
				ClientIP: clientIP,
			})
			if err != nil {
				audit.Log(audit.AuthenticateEvent{
					Username:     req.Username,
					ClientIP:     clientIP,
					Success:      false,
					ErrorMessage: errorMessageFor(err),
				})
				// One response for every failure mode. Whether the username
				// exists, the password is wrong or the account is disabled
				// must not be observable from the outside.
				writeError(w, http.StatusUnauthorized, "invalid username or password")
				return
			}

			signed, err := signer.Issue(user.Username, user.IsAdmin)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to issue token")
				return
			}

			audit.Log(audit.AuthenticateEvent{
				Username: user.Username,
				ClientIP: clientIP,
				Success:  true,
			})

			writeJSON(w, http.StatusOK, TokenResponse{
				AccessToken: signed,
				TokenType:   "bearer",
				ExpiresIn:   int(signer.TTL().Seconds()),
			})
		},
	).Methods("POST")
}

func errorMessageFor(err error) string {
	if errors.Is(err, authenticator.ErrInvalidCredentials) {
		return "invalid credentials"
	}
	return err.Error()
}
