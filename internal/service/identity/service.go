// Package identity owns who the current request is: an anonymous device
// or a signed-in customer. Consumers subscribe to identity changes; the
// session layer uses those notifications to drive cart migration.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront-core/internal/domain"
	custrepo "storefront-core/internal/repository/customer"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided device token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity describes a signed-in user.
type Identity struct {
	UserID string
	Email  string
}

// Change is delivered to subscribers whenever a device session signs in
// or out. User is nil for the anonymous state.
type Change struct {
	DeviceID string
	User     *Identity
}

// Service issues device tokens, registers and authenticates customers,
// and fans out identity change notifications.
type Service struct {
	customers   custrepo.Repository
	tokens      *tokenManager
	deviceTTL   time.Duration
	passwordMin int

	mu          sync.Mutex
	subscribers []func(Change)
}

// New creates a Service with sane defaults.
func New(customers custrepo.Repository) *Service {
	return &Service{
		customers:   customers,
		tokens:      newTokenManager(),
		deviceTTL:   30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// Subscribe registers a callback invoked synchronously on sign-in and
// sign-out transitions. Migration must happen at the moment of
// authentication, so delivery is not deferred to a goroutine.
func (s *Service) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Service) notify(change Change) {
	s.mu.Lock()
	subs := make([]func(Change), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(change)
	}
}

// IssueDevice mints a fresh anonymous device token.
func (s *Service) IssueDevice(ctx context.Context) (token, deviceID string, err error) {
	deviceID = uuid.NewString()
	token, err = s.tokens.Issue(deviceID, s.deviceTTL)
	if err != nil {
		return "", "", err
	}
	return token, deviceID, nil
}

// Resolve maps a device token to its device id and, when signed in, the
// bound user.
func (s *Service) Resolve(ctx context.Context, token string) (string, *Identity, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", nil, ErrInvalidToken
	}
	if meta.UserID == "" {
		return meta.DeviceID, nil, nil
	}
	customer, err := s.customers.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return meta.DeviceID, nil, nil
		}
		return "", nil, err
	}
	return meta.DeviceID, &Identity{UserID: customer.ID, Email: customer.Email}, nil
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup registers a new customer.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.customers.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	})
}

// SignIn authenticates the customer and binds them to the device token's
// session, notifying subscribers of the anonymous -> authenticated
// transition.
func (s *Service) SignIn(ctx context.Context, token, email, password string) (*Identity, error) {
	customer, err := s.customers.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	meta, ok := s.tokens.Bind(token, customer.ID)
	if !ok {
		return nil, ErrInvalidToken
	}
	user := &Identity{UserID: customer.ID, Email: customer.Email}
	s.notify(Change{DeviceID: meta.DeviceID, User: user})
	return user, nil
}

// SignOut detaches the user from the device session and notifies
// subscribers of the authenticated -> anonymous transition.
func (s *Service) SignOut(ctx context.Context, token string) error {
	meta, ok := s.tokens.Unbind(token)
	if !ok {
		return ErrInvalidToken
	}
	s.notify(Change{DeviceID: meta.DeviceID, User: nil})
	return nil
}
