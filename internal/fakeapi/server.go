// Package fakeapi is an in-memory stand-in for the tier list backend. It
// serves the users, lists and items endpoints the client talks to, with the
// same paths, payloads and error bodies ({"detail": ...}).
package fakeapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/cryptox"
	"github.com/dmitrijs2005/tiernerd/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type Server struct {
	address         string
	store           *Store
	logger          logging.Logger
	jwtSecret       []byte
	tokenTTL        time.Duration
	shutdownTimeout time.Duration
	hashParams      cryptox.Params
	validate        *validator.Validate

	// dummyHash is verified against when the email is unknown, so both
	// login failures cost the same.
	dummyHash string
}

type Option func(*Server)

func WithAddress(a string) Option { return func(s *Server) { s.address = a } }

func WithLogger(l logging.Logger) Option { return func(s *Server) { s.logger = l } }

func WithStore(st *Store) Option { return func(s *Server) { s.store = st } }

func WithTokenTTL(d time.Duration) Option { return func(s *Server) { s.tokenTTL = d } }

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithHashParams overrides the argon2id cost, mostly to keep tests fast.
func WithHashParams(p cryptox.Params) Option { return func(s *Server) { s.hashParams = p } }

func NewServer(secretKey string, opts ...Option) (*Server, error) {
	s := &Server{
		address:         ":8000",
		store:           NewStore(),
		logger:          logging.Nop(),
		jwtSecret:       []byte(secretKey),
		tokenTTL:        30 * time.Minute,
		shutdownTimeout: 5 * time.Second,
		hashParams:      cryptox.DefaultParams,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "fakeapi")
	s.validate.RegisterTagNameFunc(jsonFieldName)

	dummy, err := cryptox.HashPasswordWith("not-a-password", s.hashParams)
	if err != nil {
		return nil, err
	}
	s.dummyHash = dummy
	return s, nil
}

func (s *Server) Store() *Store { return s.store }

// Handler returns the router with every endpoint mounted.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	// mux only reports 405 for routes on the router that served the
	// request, so every path is registered on this one router.
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	r.Use(s.requestLogger)

	authed := func(h http.HandlerFunc) http.Handler { return s.requireUser(h) }

	r.HandleFunc("/api/users/", s.register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/token", s.token).Methods(http.MethodPost)
	r.Handle("/api/users/me", authed(s.me)).Methods(http.MethodGet)

	r.Handle("/api/lists/", authed(s.getLists)).Methods(http.MethodGet)
	r.Handle("/api/lists/", authed(s.createList)).Methods(http.MethodPost)
	r.Handle("/api/lists/{id}", authed(s.deleteList)).Methods(http.MethodDelete)
	r.Handle("/api/lists/{id}/items", authed(s.listItems)).Methods(http.MethodGet)

	r.Handle("/api/items/", authed(s.createItem)).Methods(http.MethodPost)
	r.Handle("/api/items/items/{id}", authed(s.updateItem)).Methods(http.MethodPut)

	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
