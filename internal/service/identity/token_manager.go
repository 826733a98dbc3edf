package identity

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type tokenMeta struct {
	DeviceID  string
	UserID    string
	ExpiresAt time.Time
}

// tokenManager keeps device session tokens in memory. Each token maps to
// a device id plus, after sign-in, the id of the bound user.
type tokenManager struct {
	mu     sync.RWMutex
	tokens map[string]tokenMeta
}

func newTokenManager() *tokenManager {
	return &tokenManager{tokens: make(map[string]tokenMeta)}
}

func (m *tokenManager) Issue(deviceID string, ttl time.Duration) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.tokens[token] = tokenMeta{DeviceID: deviceID, ExpiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return token, nil
}

func (m *tokenManager) Validate(token string) (tokenMeta, bool) {
	m.mu.RLock()
	meta, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return tokenMeta{}, false
	}
	if time.Now().After(meta.ExpiresAt) {
		m.mu.Lock()
		delete(m.tokens, token)
		m.mu.Unlock()
		return tokenMeta{}, false
	}
	return meta, true
}

// Bind attaches a user to the token's session; Unbind detaches it. Both
// report whether the token was valid.
func (m *tokenManager) Bind(token, userID string) (tokenMeta, bool) {
	return m.setUser(token, userID)
}

func (m *tokenManager) Unbind(token string) (tokenMeta, bool) {
	return m.setUser(token, "")
}

func (m *tokenManager) setUser(token, userID string) (tokenMeta, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.tokens[token]
	if !ok || time.Now().After(meta.ExpiresAt) {
		delete(m.tokens, token)
		return tokenMeta{}, false
	}
	meta.UserID = userID
	m.tokens[token] = meta
	return meta, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
