package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/client/repositories/credentials"
)

// fakeAuth is an in-memory account backend.
type fakeAuth struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
	tokens   map[string]string // token -> email

	RegisterErr error
	LoginErr    error
	MeErr       error

	RegisterCalls int
	LoginCalls    int
	MeCalls       int

	// block, when set, holds Login until closed.
	block   chan struct{}
	entered chan struct{}
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{accounts: map[string]string{}, tokens: map[string]string{}}
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	f.accounts[req.Email] = req.Password
	return &models.User{UserID: models.ID("id-" + req.Email), Email: req.Email, Username: req.Username}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.Token, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return nil, errUnauthorized
	}
	tok := "tok-" + email
	f.tokens[tok] = email
	return &models.Token{AccessToken: tok, TokenType: "bearer"}, nil
}

func (f *fakeAuth) CurrentUser(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls++
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	email, ok := f.tokens[token]
	if !ok {
		return nil, errUnauthorized
	}
	return &models.User{UserID: models.ID("id-" + email), Email: email}, nil
}

func (f *fakeAuth) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// memStore is a credentials.Store with failure injection.
type memStore struct {
	mu    sync.Mutex
	creds *credentials.Credentials

	SaveErr   error
	SaveFails int // fail this many Save calls, then succeed
	ClearErr  error
	LoadErr   error

	SaveCalls  int
	ClearCalls int
}

func (s *memStore) Save(_ context.Context, token string, user models.LocalUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.SaveFails > 0 {
		s.SaveFails--
		return errDisk
	}
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.creds = &credentials.Credentials{Token: token, User: user}
	return nil
}

func (s *memStore) Load(_ context.Context) (credentials.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return credentials.Credentials{}, false, s.LoadErr
	}
	if s.creds == nil {
		return credentials.Credentials{}, false, nil
	}
	return *s.creds, true, nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.creds = nil
	return nil
}

func (s *memStore) stored() *credentials.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil
	}
	c := *s.creds
	return &c
}

var errDisk = errors.New("disk full")
