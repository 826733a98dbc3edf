package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"storefront-core/internal/domain"
)

type stubCustomers struct {
	byEmail map[string]*domain.Customer
	byID    map[string]*domain.Customer
	created []domain.Customer
}

func newStubCustomers() *stubCustomers {
	return &stubCustomers{
		byEmail: make(map[string]*domain.Customer),
		byID:    make(map[string]*domain.Customer),
	}
}

func (s *stubCustomers) add(c domain.Customer) {
	cc := c
	s.byEmail[c.Email] = &cc
	s.byID[c.ID] = &cc
}

func (s *stubCustomers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, ok := s.byEmail[c.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	c.ID = "cust-1"
	s.created = append(s.created, c)
	s.add(c)
	return &c, nil
}

func (s *stubCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func registered(t *testing.T, repo *stubCustomers, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.add(domain.Customer{ID: "cust-1", Email: email, PasswordHash: string(hash)})
}

func TestSignupHashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newStubCustomers()
	svc := New(repo)

	c, err := svc.Signup(context.Background(), SignupInput{
		Email:     "  Ada@Example.COM ",
		Password:  "correct horse",
		FirstName: " Ada ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", c.Email)
	}
	if c.FirstName != "Ada" {
		t.Fatalf("expected trimmed first name, got %q", c.FirstName)
	}
	if c.PasswordHash == "correct horse" || c.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := New(newStubCustomers())
	if _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.com", Password: "short"}); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newStubCustomers()
	registered(t, repo, "ada@example.com", "correct horse")
	svc := New(repo)

	_, err := svc.Signup(context.Background(), SignupInput{Email: "ada@example.com", Password: "correct horse"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSignInBindsTokenAndNotifies(t *testing.T) {
	repo := newStubCustomers()
	registered(t, repo, "ada@example.com", "correct horse")
	svc := New(repo)

	token, deviceID, err := svc.IssueDevice(context.Background())
	if err != nil {
		t.Fatalf("issue device: %v", err)
	}

	var changes []Change
	svc.Subscribe(func(c Change) { changes = append(changes, c) })

	user, err := svc.SignIn(context.Background(), token, "Ada@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if user.UserID != "cust-1" {
		t.Fatalf("unexpected user id %q", user.UserID)
	}

	if len(changes) != 1 {
		t.Fatalf("expected one change notification, got %d", len(changes))
	}
	if changes[0].DeviceID != deviceID || changes[0].User == nil || changes[0].User.UserID != "cust-1" {
		t.Fatalf("unexpected change %+v", changes[0])
	}

	gotDevice, identity, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if gotDevice != deviceID || identity == nil || identity.UserID != "cust-1" {
		t.Fatalf("resolve did not reflect sign-in: %q %+v", gotDevice, identity)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	repo := newStubCustomers()
	registered(t, repo, "ada@example.com", "correct horse")
	svc := New(repo)

	token, _, _ := svc.IssueDevice(context.Background())
	if _, err := svc.SignIn(context.Background(), token, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	svc := New(newStubCustomers())
	token, _, _ := svc.IssueDevice(context.Background())
	if _, err := svc.SignIn(context.Background(), token, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInBadToken(t *testing.T) {
	repo := newStubCustomers()
	registered(t, repo, "ada@example.com", "correct horse")
	svc := New(repo)

	if _, err := svc.SignIn(context.Background(), "bogus", "ada@example.com", "correct horse"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSignOutNotifiesAnonymous(t *testing.T) {
	repo := newStubCustomers()
	registered(t, repo, "ada@example.com", "correct horse")
	svc := New(repo)

	token, deviceID, _ := svc.IssueDevice(context.Background())
	if _, err := svc.SignIn(context.Background(), token, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var changes []Change
	svc.Subscribe(func(c Change) { changes = append(changes, c) })

	if err := svc.SignOut(context.Background(), token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(changes) != 1 || changes[0].DeviceID != deviceID || changes[0].User != nil {
		t.Fatalf("expected anonymous change for device, got %+v", changes)
	}

	_, identity, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve after sign out: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected anonymous resolve after sign out, got %+v", identity)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	svc := New(newStubCustomers())
	if _, _, err := svc.Resolve(context.Background(), "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
