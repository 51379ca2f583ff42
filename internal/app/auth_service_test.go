package app

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tutorchat/internal/model"
	"tutorchat/internal/pkg/jwtutil"
	"tutorchat/internal/repository"
)

type fakeUserStore struct {
	byEmail   map[string]*model.User
	nextID    uint
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) Create(user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrDuplicateKey
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStore) GetByID(id uint) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newTestAuthService(store UserStore) *AuthService {
	return NewAuthService(store, "test-secret", time.Hour)
}

func TestSignupAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	signedUp, err := svc.Signup(SignupInput{Name: "Ada", Email: "Ada@X.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if signedUp.Token == "" {
		t.Error("Expected a non-empty token")
	}
	if signedUp.User.Email != "ada@x.com" {
		t.Errorf("Expected normalized email 'ada@x.com', got %q", signedUp.User.Email)
	}
	if signedUp.User.PasswordHash == "secret123" {
		t.Error("Password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(signedUp.User.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("Stored hash does not verify: %v", err)
	}

	loggedIn, err := svc.Login(LoginInput{Email: "ada@x.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := jwtutil.ParseToken("test-secret", loggedIn.Token)
	if err != nil {
		t.Fatalf("Login token does not parse: %v", err)
	}
	if claims.UserID != signedUp.User.ID {
		t.Errorf("Login token user id %d, want %d", claims.UserID, signedUp.User.ID)
	}
}

func TestSignupMissingFields(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"missing name", SignupInput{Email: "a@x.com", Password: "secret123"}},
		{"missing email", SignupInput{Name: "Ada", Password: "secret123"}},
		{"missing password", SignupInput{Name: "Ada", Email: "a@x.com"}},
		{"blank name", SignupInput{Name: "   ", Email: "a@x.com", Password: "secret123"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(tc.input); !errors.Is(err, ErrMissingFields) {
				t.Errorf("Expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)

	if _, err := svc.Signup(SignupInput{Name: "Ada", Email: "ada@x.com", Password: "secret123"}); err != nil {
		t.Fatalf("First signup failed: %v", err)
	}
	if _, err := svc.Signup(SignupInput{Name: "Eve", Email: "ada@x.com", Password: "other456"}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}

	// First user's row is untouched.
	user, _ := store.GetByEmail("ada@x.com")
	if user == nil || user.Name != "Ada" {
		t.Error("First user's row was modified by the failed signup")
	}
}

func TestSignupDuplicateKeyRace(t *testing.T) {
	// The pre-check misses a concurrent insert; the unique index error must
	// still map to the same user-facing failure.
	store := newFakeUserStore()
	store.createErr = repository.ErrDuplicateKey
	svc := newTestAuthService(store)

	if _, err := svc.Signup(SignupInput{Name: "Ada", Email: "ada@x.com", Password: "secret123"}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists from duplicate key, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestAuthService(store)
	if _, err := svc.Signup(SignupInput{Name: "Ada", Email: "ada@x.com", Password: "secret123"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	tests := []struct {
		name    string
		input   LoginInput
		wantErr error
	}{
		{"wrong password", LoginInput{Email: "ada@x.com", Password: "wrong"}, ErrInvalidCredentials},
		{"unknown email", LoginInput{Email: "nobody@x.com", Password: "secret123"}, ErrInvalidCredentials},
		{"missing email", LoginInput{Password: "secret123"}, ErrMissingFields},
		{"missing password", LoginInput{Email: "ada@x.com"}, ErrMissingFields},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Login(tc.input); !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
