package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/authd/authd/pkg/audit"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/identity"
	"github.com/authd/authd/pkg/server"
	"github.com/authd/authd/pkg/server/middleware"
	"github.com/authd/authd/pkg/server/store"
)

// UserListResponse is the body of GET /users
type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// UserActiveRequest is the body of PUT /users/{username}/active
type UserActiveRequest struct {
	Active *bool `json:"active"`
}

const defaultUserListLimit = 100

// RegisterUsersEndpoints registers the admin-only user management endpoints
func RegisterUsersEndpoints(s *server.Server) {
	usersStore := s.UsersStore

	adminOnly := func(h http.HandlerFunc) http.Handler {
		return s.TokenMiddleware.Middleware(middleware.RequireAdmin(h))
	}

	s.Router.Handle(
		"/users",
		adminOnly(func(w http.ResponseWriter, r *http.Request) {
			limit := defaultUserListLimit
			if raw := r.URL.Query().Get("limit"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil || parsed < 1 {
					writeError(w, http.StatusBadRequest, "limit must be a positive integer")
					return
				}
				limit = parsed
			}
			if max := config.Get().UserListLimitMax; limit > max {
				limit = max
			}

			offset := 0
			if raw := r.URL.Query().Get("offset"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil || parsed < 0 {
					writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
					return
				}
				offset = parsed
			}

			users, err := usersStore.ListUsers(limit, offset)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list users")
				return
			}

			total, err := usersStore.CountUsers()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to count users")
				return
			}

			resp := UserListResponse{
				Users:  make([]UserResponse, 0, len(users)),
				Total:  total,
				Limit:  limit,
				Offset: offset,
			}
			for i := range users {
				resp.Users = append(resp.Users, newUserResponse(&users[i]))
			}

			writeJSON(w, http.StatusOK, resp)
		}),
	).Methods("GET")

	s.Router.Handle(
		"/users/{username}/active",
		adminOnly(func(w http.ResponseWriter, r *http.Request) {
			username := mux.Vars(r)["username"]

			var req UserActiveRequest
			if err := decodeJSON(r, &req); err != nil || req.Active == nil {
				writeError(w, http.StatusBadRequest, "body must contain an \"active\" boolean")
				return
			}

			if err := usersStore.SetActive(username, *req.Active); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					writeError(w, http.StatusNotFound, "user not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to update user")
				return
			}

			actor := ""
			if id, ok := identity.Get(r.Context()); ok {
				actor = id.Username
			}
			audit.Log(audit.UserActiveEvent{
				Username: username,
				Actor:    actor,
				ClientIP: middleware.ClientIP(config.Get(), r),
				Active:   *req.Active,
			})

			w.WriteHeader(http.StatusNoContent)
		}),
	).Methods("PUT")
}
