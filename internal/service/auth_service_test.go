package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := f.users[user.Username]; exists {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, user := range f.users {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateWallet(ctx context.Context, userID uuid.UUID, walletAddress *string) error {
	for _, user := range f.users {
		if user.ID == userID {
			user.WalletAddress = walletAddress
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

const testSecret = "test-secret"

func newTestAuthService(repo *fakeUserRepo) AuthService {
	return NewAuthService(repo, nil, testSecret, 24*time.Hour)
}

func TestRegister_NormalizesUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	resp, err := svc.Register(context.Background(), RegisterInput{
		Username: "  Alice ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	registered, ok := resp.User.(RegisteredUser)
	if !ok {
		t.Fatalf("user is %T, want RegisteredUser", resp.User)
	}
	if registered.Username != "alice" {
		t.Errorf("username = %q, want %q", registered.Username, "alice")
	}
	if _, exists := repo.users["alice"]; !exists {
		t.Error("user not stored under lowercased name")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", resp.TokenType)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantMsg string
	}{
		{"username too short", RegisterInput{Username: "a", Password: "secret123"}, "Username must be at least 2 characters"},
		{"whitespace-only username", RegisterInput{Username: "   ", Password: "secret123"}, "Username must be at least 2 characters"},
		{"password too short", RegisterInput{Username: "alice", Password: "12345"}, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(newFakeUserRepo())

			_, err := svc.Register(context.Background(), tt.input)
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("error = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRegister_DuplicateIsCaseInsensitive(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{Username: "ALICE", Password: "other456"})
	if err == nil || err.Error() != "Username already taken" {
		t.Fatalf("error = %v, want %q", err, "Username already taken")
	}
	if status := apperror.MapErrorToStatus(err); status != http.StatusConflict {
		t.Errorf("status = %d, want %d", status, http.StatusConflict)
	}
}

func TestLogin_CaseInsensitiveRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	reg, err := svc.Register(context.Background(), RegisterInput{Username: "Alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginInput{Username: "ALICE", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	user, ok := resp.User.(*model.User)
	if !ok {
		t.Fatalf("user is %T, want *model.User", resp.User)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}

	// The token must carry the registered user's id as its subject.
	registered := reg.User.(RegisteredUser)
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("token parse error: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Errorf("token subject = %q, want %q", claims.Subject, registered.ID)
	}
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), LoginInput{Username: "nosuchuser", Password: "secret123"})
	_, wrongPwErr := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrongpass"})

	if unknownErr == nil || wrongPwErr == nil {
		t.Fatal("expected both logins to fail")
	}

	// Identical message for both failure modes so usernames cannot be
	// probed through the login endpoint.
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("messages differ: %q vs %q", unknownErr.Error(), wrongPwErr.Error())
	}
	if unknownErr.Error() != "Invalid username or password" {
		t.Errorf("error = %q, want %q", unknownErr.Error(), "Invalid username or password")
	}
	if status := apperror.MapErrorToStatus(unknownErr); status != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{})
	if err == nil || err.Error() != "Username and password required" {
		t.Errorf("error = %v, want %q", err, "Username and password required")
	}
}
