package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"cargoflow/logger"
)

var (
	// ErrAlreadyInitialized signals a second Initialize call; the verifying
	// state is entered at most once per process.
	ErrAlreadyInitialized = errors.New("session: already initialized")
	// ErrInvalidRole signals an identity whose role is outside the closed set.
	ErrInvalidRole = errors.New("session: invalid role")
)

// Verifier checks a bearer token against the remote backend and returns the
// identity it belongs to. Any error means "not authenticated".
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
}

// Manager owns the authenticated-user state: who is logged in, with what
// role, persisted across restarts. It is the single source of truth consumed
// by route guards and views.
//
// Lifecycle: uninitialized -> verifying -> authenticated|anonymous. The only
// way back to authenticated from anonymous is an explicit Login.
type Manager struct {
	storage  Storage
	verifier Verifier
	log      *logger.Logger
	group    singleflight.Group

	mu       sync.Mutex
	state    State
	identity *Identity
	token    string
	// epoch changes on every Login/Logout. A verification that resolves
	// under a stale epoch is discarded, so a callback completing after
	// logout can never resurrect the session.
	epoch    string
	watchers []func(Snapshot)
}

// NewManager builds a manager over the given storage and verifier.
func NewManager(storage Storage, verifier Verifier, log *logger.Logger) *Manager {
	return &Manager{
		storage:  storage,
		verifier: verifier,
		log:      log,
		state:    StateUninitialized,
		epoch:    uuid.NewString(),
	}
}

// Initialize restores the persisted session. Without a stored token it
// settles to anonymous with no network call. With one, it verifies the token
// remotely; any failure (transport, malformed response, explicit rejection)
// clears both the stored and in-memory pair. The loading flag drops exactly
// once, when this sequence resolves.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return ErrAlreadyInitialized
	}

	creds, err := m.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCredentials) {
			m.log.Warn("session storage unreadable, starting anonymous", "error", err)
		}
		m.state = StateAnonymous
		m.mu.Unlock()
		m.notify()
		return nil
	}

	if tokenExpired(creds.Token) {
		// A clearly expired token would be rejected remotely anyway;
		// skip the doomed round trip and settle logged out.
		if err := m.storage.Clear(ctx); err != nil {
			m.log.Warn("clear expired session", "error", err)
		}
		m.state = StateAnonymous
		m.mu.Unlock()
		m.notify()
		return nil
	}

	m.state = StateVerifying
	epoch := m.epoch
	token := creds.Token
	m.mu.Unlock()
	m.notify()

	identity, verr := m.verifyOnce(ctx, token)

	m.mu.Lock()
	if m.epoch != epoch {
		// Logout (or a fresh login) won the race while the call was in
		// flight; its state stands and this result is discarded.
		m.mu.Unlock()
		return nil
	}

	if verr != nil || !identity.Role.Valid() {
		if verr != nil {
			m.log.Info("stored token rejected", "error", verr)
		} else {
			m.log.Warn("verification returned unknown role", "role", identity.Role)
		}
		if err := m.storage.Clear(ctx); err != nil {
			m.log.Warn("clear rejected session", "error", err)
		}
		m.identity = nil
		m.token = ""
		m.state = StateAnonymous
		m.mu.Unlock()
		m.notify()
		return nil
	}

	m.identity = &identity
	m.token = token
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.notify()
	return nil
}

// verifyOnce collapses concurrent verifications of the same process into a
// single outstanding call.
func (m *Manager) verifyOnce(ctx context.Context, token string) (Identity, error) {
	v, err, _ := m.group.Do("verify", func() (interface{}, error) {
		return m.verifier.VerifyToken(ctx, token)
	})
	if err != nil {
		return Identity{}, err
	}
	return v.(Identity), nil
}

// Login records a freshly authenticated identity and its token, persisting
// both together. Route guards watching the session re-evaluate.
func (m *Manager) Login(ctx context.Context, identity Identity, token string) error {
	if token == "" {
		return fmt.Errorf("session: login with empty token")
	}
	if !identity.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, identity.Role)
	}

	m.mu.Lock()
	if err := m.storage.Save(ctx, Credentials{Token: token, Identity: identity}); err != nil {
		m.mu.Unlock()
		return err
	}
	m.identity = &identity
	m.token = token
	m.state = StateAuthenticated
	m.epoch = uuid.NewString()
	m.mu.Unlock()

	m.notify()
	return nil
}

// Logout clears the session from memory and storage. It is idempotent:
// without an active session it only re-clears storage. A verification still
// in flight is invalidated and cannot write its result afterwards.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.identity = nil
	m.token = ""
	m.state = StateAnonymous
	m.epoch = uuid.NewString()
	err := m.storage.Clear(ctx)
	m.mu.Unlock()

	m.notify()
	return err
}

// Snapshot returns the state route guards decide on. Loading is true until
// Initialize has resolved.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Loading: m.state == StateUninitialized || m.state == StateVerifying,
	}
	if m.identity != nil {
		id := *m.identity
		snap.Identity = &id
	}
	return snap
}

// Token returns the current bearer token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// CurrentState exposes the lifecycle state, mainly for logging.
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OnChange registers fn to run after every session transition.
func (m *Manager) OnChange(fn func(Snapshot)) {
	m.mu.Lock()
	m.watchers = append(m.watchers, fn)
	m.mu.Unlock()
}

func (m *Manager) notify() {
	m.mu.Lock()
	watchers := make([]func(Snapshot), len(m.watchers))
	copy(watchers, m.watchers)
	m.mu.Unlock()

	snap := m.Snapshot()
	for _, fn := range watchers {
		fn(snap)
	}
}

// tokenExpired reports whether token is a JWT with an exp claim in the past.
// Opaque or unparsable tokens are left for the backend to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
