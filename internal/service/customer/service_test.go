package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"tiendanorte/internal/domain"
	tokenrepo "tiendanorte/internal/repository/token"
)

// memoryRepo is a lightweight in-memory user repository for tests.
type memoryRepo struct {
	byEmail   map[string]domain.User
	addresses map[string][]domain.Address
	nextID    int
}

type memoryTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byEmail:   make(map[string]domain.User),
		addresses: make(map[string][]domain.Address),
	}
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	r.nextID++
	clone := u
	clone.ID = "user-" + u.Email
	r.byEmail[clone.Email] = clone
	return &clone, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		clone := u
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) ListAddresses(_ context.Context, userID string) ([]domain.Address, error) {
	return append([]domain.Address(nil), r.addresses[userID]...), nil
}

func (r *memoryRepo) AddAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	r.nextID++
	a.ID = "addr-" + a.Street
	r.addresses[a.UserID] = append(r.addresses[a.UserID], a)
	return &a, nil
}

func (r *memoryRepo) DeleteAddress(_ context.Context, userID, addressID string) error {
	list := r.addresses[userID]
	for i, a := range list {
		if a.ID == addressID {
			r.addresses[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func TestSignupAndLogin_SucceedsWithTrimmedPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, newMemoryTokenRepo())

	ctx := context.Background()
	rawPassword := " Abcdefg1 " // includes whitespace

	user, err := svc.Signup(ctx, SignupInput{
		Email:     "User@Example.com",
		Password:  rawPassword,
		FirstName: "T",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}
	if user == nil || user.Email != "user@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	_, token, err := svc.Login(ctx, "user@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("login failed with trimmed password: %v", err)
	}
	if token == "" {
		t.Fatalf("login did not issue a token")
	}

	resolved, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("lookup by token: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("token resolved to %s, want %s", resolved.ID, user.ID)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, newMemoryTokenRepo())
	ctx := context.Background()

	in := SignupInput{Email: "user@example.com", Password: "Abcdefg1"}
	if _, err := svc.Signup(ctx, in); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Signup(ctx, in); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestValidatePassword_FailsOnWeakValues(t *testing.T) {
	cases := []struct {
		name string
		pass string
	}{
		{"too short", "Abc1"},
		{"no upper", "abcdefg1"},
		{"no lower", "ABCDEFG1"},
		{"no digit", "Abcdefgh"},
	}
	for _, tc := range cases {
		if err := validatePassword(tc.pass, 8); err == nil {
			t.Fatalf("expected error for case %s", tc.name)
		}
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, newMemoryTokenRepo())
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{
		Email:    "user@example.com",
		Password: "Abcdefg1",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(ctx, "user@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "missing@example.com", "Abcdefg1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for missing user, got %v", err)
	}
}

func TestLookupByToken_ExpiredTokenIsRejectedAndDeleted(t *testing.T) {
	repo := newMemoryRepo()
	tokens := newMemoryTokenRepo()
	svc := New(repo, tokens)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Email: "user@example.com", Password: "Abcdefg1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	tokens.tokens["stale"] = tokenrepo.Token{
		Token:     "stale",
		UserID:    user.ID,
		Kind:      "access",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if _, err := svc.LookupByToken(ctx, "stale"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := tokens.tokens["stale"]; ok {
		t.Fatalf("expired token was not deleted")
	}
}

func TestLogout_UnknownTokenIsNoOp(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo())
	if err := svc.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("logout unknown token: %v", err)
	}
}
