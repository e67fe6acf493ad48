package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/authd/authd/pkg/authenticator"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/server/middleware"
	"github.com/authd/authd/pkg/server/store"
	gormstore "github.com/authd/authd/pkg/server/store/gorm"
	"github.com/authd/authd/pkg/token"
)

type Server struct {
	Router          *mux.Router
	DB              *gorm.DB
	Signer          *token.Signer
	Config          *config.Config
	UsersStore      store.UsersStore
	HealthStore     store.HealthStore
	Authenticators  *authenticator.Registry
	TokenMiddleware *middleware.TokenAuthenticator
	srv             *http.Server
}

func NewServer(
	db *gorm.DB,
	signer *token.Signer,
	cfg *config.Config,
	registry *authenticator.Registry,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:          router,
		DB:              db,
		Signer:          signer,
		Config:          cfg,
		UsersStore:      gormstore.NewUsersStore(db),
		HealthStore:     gormstore.NewHealthStore(db),
		Authenticators:  registry,
		TokenMiddleware: middleware.NewTokenAuthenticator(signer),
		srv:             srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
