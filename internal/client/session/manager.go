package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/tiernerd/internal/client/services"
	"github.com/dmitrijs2005/tiernerd/internal/client/validation"
	"github.com/dmitrijs2005/tiernerd/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"
)

type State int

const (
	StateResolving State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	MockUserID = "123456789"
	MockToken  = "mock-auth-token"

	MsgOperationInProgress = "Another request is already in progress"
	MsgRegisteredNotSigned = "Account created, but signing in failed. Please sign in."
	MsgFetchUserFailed     = "Failed to fetch user info"
	MsgSessionExpired      = "Your session has expired. Please sign in again."
)

var ErrOperationInProgress = errors.New("another session operation is in progress")

// Snapshot is a consistent copy of the session.
type Snapshot struct {
	State        State
	User         *models.LocalUser
	Token        string
	IsLoading    bool
	LastError    string
	PendingEmail string
	NeedsPersist bool
}

type pendingWrite int

const (
	pendingNone pendingWrite = iota
	pendingSave
	pendingClear
)

type Manager struct {
	auth   services.AuthService
	store  credentials.Store
	logger logging.Logger

	mock         bool
	persistTries uint64
	persistBase  time.Duration
	now          func() time.Time

	// guard admits one operation at a time; TryAcquire only.
	guard *semaphore.Weighted

	mu           sync.RWMutex
	state        State
	user         *models.LocalUser
	token        string
	loading      bool
	lastErr      string
	pendingEmail string
	pending      pendingWrite
}

type Option func(*Manager)

// WithMockAuth accepts any non-empty credentials without a network call.
func WithMockAuth(enabled bool) Option {
	return func(m *Manager) { m.mock = enabled }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithPersistRetry sets how many times a failed credential write is retried
// and the first backoff delay, which doubles on each attempt.
func WithPersistRetry(retries uint64, base time.Duration) Option {
	return func(m *Manager) {
		m.persistTries = retries
		m.persistBase = base
	}
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns a Manager in StateResolving. Call Restore to leave it.
func New(auth services.AuthService, store credentials.Store, opts ...Option) *Manager {
	m := &Manager{
		auth:         auth,
		store:        store,
		logger:       logging.Nop(),
		persistTries: 3,
		persistBase:  100 * time.Millisecond,
		now:          time.Now,
		guard:        semaphore.NewWeighted(1),
		state:        StateResolving,
		loading:      true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "session")
	return m
}

func (m *Manager) MockMode() bool { return m.mock }

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns a copy of the signed-in user, nil when anonymous.
func (m *Manager) CurrentUser() *models.LocalUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.user)
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// PendingEmail is set when an account was created but signing in to it
// failed; it is cleared by the next successful sign-in or SignOut.
func (m *Manager) PendingEmail() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pendingEmail
}

// NeedsPersist reports a credential write that has not reached the store.
func (m *Manager) NeedsPersist() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending != pendingNone
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:        m.state,
		User:         copyUser(m.user),
		Token:        m.token,
		IsLoading:    m.loading,
		LastError:    m.lastErr,
		PendingEmail: m.pendingEmail,
		NeedsPersist: m.pending != pendingNone,
	}
}

func copyUser(u *models.LocalUser) *models.LocalUser {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// begin takes the operation guard. On success the session is marked loading
// and the returned func must be deferred.
func (m *Manager) begin() (func(), bool) {
	if !m.guard.TryAcquire(1) {
		return nil, false
	}
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
		m.guard.Release(1)
	}, true
}

// rejectBusy leaves the session untouched; callers report the rejection
// through their return value.
func (m *Manager) rejectBusy(ctx context.Context, op string) {
	m.logger.Debug(ctx, "operation rejected, another one is in flight", "op", op)
}

func (m *Manager) fail(msg string) {
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
}

// authenticate sets user and token together.
func (m *Manager) authenticate(user models.LocalUser, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.user = &user
	m.token = token
	m.lastErr = ""
	m.pendingEmail = ""
}

func (m *Manager) anonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.user = nil
	m.token = ""
}

func mockUser(email string) models.LocalUser {
	email = strings.TrimSpace(email)
	return models.LocalUser{
		ID:          MockUserID,
		Email:       email,
		DisplayName: models.DisplayName("", email),
	}
}

// Restore resolves the session from stored credentials. A stored token is
// checked against the server; in mock mode only MockToken is accepted. A
// rejected token is removed from the store. It returns the resulting state.
func (m *Manager) Restore(ctx context.Context) State {
	done, ok := m.begin()
	if !ok {
		m.rejectBusy(ctx, "restore")
		return m.State()
	}
	defer done()

	creds, found, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn(ctx, "reading stored credentials failed", "error", err)
		found = false
	}
	if !found {
		m.anonymous()
		return StateAnonymous
	}

	if m.mock {
		if creds.Token != MockToken {
			m.logger.Info(ctx, "stored token was not issued in mock mode, signing out")
			m.anonymous()
			m.clearStored(ctx)
			return StateAnonymous
		}
		m.authenticate(creds.User, creds.Token)
		return StateAuthenticated
	}

	user, valid := m.ValidateToken(ctx, creds.Token)
	if !valid {
		m.logger.Info(ctx, "stored token rejected, signing out")
		m.anonymous()
		m.clearStored(ctx)
		return StateAnonymous
	}

	m.authenticate(*user, creds.Token)
	m.persist(ctx)
	return StateAuthenticated
}

// ValidateToken fetches the user the token belongs to. Any failure, local or
// remote, means invalid. A JWT past its exp claim is rejected without a
// request.
func (m *Manager) ValidateToken(ctx context.Context, token string) (*models.LocalUser, bool) {
	if token == "" {
		return nil, false
	}
	if m.mock {
		if token != MockToken {
			return nil, false
		}
		u := m.CurrentUser()
		return u, u != nil
	}
	if m.expired(token) {
		m.logger.Debug(ctx, "token expired locally")
		return nil, false
	}

	u, err := m.auth.CurrentUser(ctx, token)
	if err != nil {
		m.logger.Info(ctx, "token validation failed", "error", err)
		return nil, false
	}
	local := models.ToLocalUser(*u)
	return &local, true
}

// expired reports a JWT whose exp lies in the past. Tokens that are not JWTs
// or carry no exp are left to the server.
func (m *Manager) expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(m.now())
}

// Login signs in with email and password. On failure the session is left as
// it was and LastError says why.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	done, ok := m.begin()
	if !ok {
		m.rejectBusy(ctx, "login")
		return false
	}
	defer done()

	if err := validation.Login(email, password); err != nil {
		m.fail(err.Error())
		return false
	}
	m.fail("")

	if m.mock {
		m.authenticate(mockUser(email), MockToken)
		m.persist(ctx)
		return true
	}

	user, token, msg := m.signIn(ctx, strings.TrimSpace(email), password)
	if msg != "" {
		m.fail(msg)
		return false
	}

	m.authenticate(user, token)
	m.persist(ctx)
	return true
}

// Register creates an account and signs in to it. If the account is created
// but signing in fails, Register returns false with MsgRegisteredNotSigned
// and PendingEmail set; the session stays as it was.
func (m *Manager) Register(ctx context.Context, email, password, username string) bool {
	done, ok := m.begin()
	if !ok {
		m.rejectBusy(ctx, "register")
		return false
	}
	defer done()

	form := validation.RegisterForm{Email: email, Password: password, Confirm: password, Username: username}
	if err := validation.Register(form); err != nil {
		m.fail(err.Error())
		return false
	}
	m.fail("")

	email = strings.TrimSpace(email)

	if m.mock {
		m.authenticate(mockUser(email), MockToken)
		m.persist(ctx)
		return true
	}

	created, err := m.auth.Register(ctx, models.RegisterRequest{
		Email:    email,
		Password: password,
		Username: strings.TrimSpace(username),
	})
	if err != nil {
		m.logger.Info(ctx, "register failed", "error", err)
		m.fail(services.ErrorMessage(err, services.FeatureRegister))
		return false
	}

	user, token, msg := m.signIn(ctx, created.Email, password)
	if msg != "" {
		m.logger.Warn(ctx, "account created but sign in failed", "email", created.Email, "reason", msg)
		m.mu.Lock()
		m.lastErr = MsgRegisteredNotSigned
		m.pendingEmail = created.Email
		m.mu.Unlock()
		return false
	}

	m.authenticate(user, token)
	m.persist(ctx)
	return true
}

// signIn exchanges credentials for a token, then fetches the user. msg is
// the user-facing failure, empty on success.
func (m *Manager) signIn(ctx context.Context, email, password string) (models.LocalUser, string, string) {
	tok, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Info(ctx, "login failed", "error", err)
		return models.LocalUser{}, "", services.ErrorMessage(err, services.FeatureLogin)
	}

	u, err := m.auth.CurrentUser(ctx, tok.AccessToken)
	if err != nil {
		m.logger.Info(ctx, "fetching user after login failed", "error", err)
		if errors.Is(err, client.ErrUnavailable) {
			return models.LocalUser{}, "", services.MsgNetworkError
		}
		return models.LocalUser{}, "", MsgFetchUserFailed
	}
	return models.ToLocalUser(*u), tok.AccessToken, ""
}

// SignOut forgets the session and the stored credentials. It is a no-op
// when already anonymous, apart from clearing the store again. The only
// error is ErrOperationInProgress.
func (m *Manager) SignOut(ctx context.Context) error {
	done, ok := m.begin()
	if !ok {
		m.rejectBusy(ctx, "sign out")
		return ErrOperationInProgress
	}
	defer done()

	m.mu.Lock()
	m.state = StateAnonymous
	m.user = nil
	m.token = ""
	m.lastErr = ""
	m.pendingEmail = ""
	m.mu.Unlock()

	m.clearStored(ctx)
	return nil
}

// Invalidate signs out after the server rejected token mid-session and sets
// LastError to MsgSessionExpired. It does nothing when token is no longer
// the current one, so a late rejection cannot end a newer session. The only
// error is ErrOperationInProgress.
func (m *Manager) Invalidate(ctx context.Context, token string) error {
	done, ok := m.begin()
	if !ok {
		m.rejectBusy(ctx, "invalidate")
		return ErrOperationInProgress
	}
	defer done()

	m.mu.Lock()
	if token == "" || token != m.token {
		m.mu.Unlock()
		return nil
	}
	m.state = StateAnonymous
	m.user = nil
	m.token = ""
	m.lastErr = MsgSessionExpired
	m.pendingEmail = ""
	m.mu.Unlock()

	m.logger.Info(ctx, "token rejected by server, signing out")
	m.clearStored(ctx)
	return nil
}

// FlushPending retries a credential write that failed earlier.
func (m *Manager) FlushPending(ctx context.Context) error {
	done, ok := m.begin()
	if !ok {
		return ErrOperationInProgress
	}
	defer done()

	m.mu.RLock()
	pending := m.pending
	m.mu.RUnlock()

	switch pending {
	case pendingSave:
		return m.persist(ctx)
	case pendingClear:
		return m.clearStored(ctx)
	default:
		return nil
	}
}

func (m *Manager) backoff() retry.Backoff {
	return retry.WithMaxRetries(m.persistTries, retry.NewExponential(m.persistBase))
}

// persist writes the current token and user. Failures are logged and leave
// pendingSave behind.
func (m *Manager) persist(ctx context.Context) error {
	m.mu.RLock()
	token, user := m.token, copyUser(m.user)
	m.mu.RUnlock()
	if user == nil || token == "" {
		return nil
	}

	err := retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		if err := m.store.Save(ctx, token, *user); err != nil {
			m.logger.Debug(ctx, "saving credentials failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.logger.Error(ctx, "saving credentials failed", "error", err)
		m.pending = pendingSave
		return fmt.Errorf("persist credentials: %w", err)
	}
	m.pending = pendingNone
	return nil
}

func (m *Manager) clearStored(ctx context.Context) error {
	err := retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		if err := m.store.Clear(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.logger.Error(ctx, "clearing stored credentials failed", "error", err)
		m.pending = pendingClear
		return fmt.Errorf("clear credentials: %w", err)
	}
	m.pending = pendingNone
	return nil
}
