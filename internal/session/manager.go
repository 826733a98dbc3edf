// Package session owns the cart lifecycle across identity transitions:
// one Session per device, each holding a cart store whose persistence
// owner follows sign-in and sign-out.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"storefront-core/internal/cart"
	"storefront-core/internal/events"
	"storefront-core/internal/service/identity"
)

// Session binds one device to its in-memory cart store and the identity
// currently driving persistence.
type Session struct {
	deviceID string
	store    *cart.Store

	mu       sync.Mutex
	userID   string
	inFlight bool
}

// Store returns the session's cart store.
func (s *Session) Store() *cart.Store {
	return s.store
}

// DeviceID returns the owning device id.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// UserID returns the signed-in user id, or "" while anonymous.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// BeginCheckout marks a submission in flight. It reports false when one
// is already running, the API-level equivalent of a disabled submit
// button.
func (s *Session) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

// EndCheckout clears the in-flight mark.
func (s *Session) EndCheckout() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *Session) setUser(userID string) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
}

// Manager is the session registry. Sessions are created on demand per
// device token and react to identity change notifications.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	bridge *Bridge
	pub    events.Publisher
	logger *zap.Logger
}

// NewManager builds an empty registry.
func NewManager(bridge *Bridge, pub events.Publisher, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		bridge:   bridge,
		pub:      pub,
		logger:   logger.Named("session"),
	}
}

// Attach subscribes the manager to identity transitions.
func (m *Manager) Attach(ids *identity.Service) {
	ids.Subscribe(m.handleChange)
}

// Get returns the session for a device, creating and hydrating it on
// first sight. The identity argument reflects the current request; a
// session created mid-signed-in (e.g. after a process restart would have
// dropped it) hydrates straight from the remote record.
func (m *Manager) Get(ctx context.Context, deviceID string, user *identity.Identity) *Session {
	m.mu.Lock()
	sess, ok := m.sessions[deviceID]
	if !ok {
		sess = &Session{deviceID: deviceID}
		if user != nil {
			sess.userID = user.UserID
			sess.store = cart.NewStore(OwnerForUser(user.UserID), m.pub)
		} else {
			sess.store = cart.NewStore(OwnerForDevice(deviceID), m.pub)
		}
		m.sessions[deviceID] = sess
	}
	m.mu.Unlock()

	if !ok {
		if user != nil {
			sess.store.Hydrate(m.bridge.LoadAuthenticated(ctx, deviceID, user.UserID))
		} else {
			sess.store.Hydrate(m.bridge.LoadAnonymous(ctx, deviceID))
		}
	}
	return sess
}

// handleChange applies sign-in and sign-out transitions: rebind the
// store's persistence owner and rehydrate per the load rules. Sign-in
// runs the one-time migration inside LoadAuthenticated; sign-out
// performs no migration and picks up whatever the local record holds.
func (m *Manager) handleChange(change identity.Change) {
	ctx := context.Background()
	sess := m.Get(ctx, change.DeviceID, change.User)

	if change.User != nil {
		sess.setUser(change.User.UserID)
		sess.store.SetOwner(OwnerForUser(change.User.UserID))
		sess.store.Hydrate(m.bridge.LoadAuthenticated(ctx, change.DeviceID, change.User.UserID))
		m.logger.Info("session authenticated",
			zap.String("deviceId", change.DeviceID),
			zap.String("userId", change.User.UserID),
		)
		return
	}

	sess.setUser("")
	sess.store.SetOwner(OwnerForDevice(change.DeviceID))
	sess.store.Hydrate(m.bridge.LoadAnonymous(ctx, change.DeviceID))
	m.logger.Info("session signed out", zap.String("deviceId", change.DeviceID))
}

// Drop removes a session from the registry (used when its device token
// expires).
func (m *Manager) Drop(deviceID string) {
	m.mu.Lock()
	delete(m.sessions, deviceID)
	m.mu.Unlock()
}
