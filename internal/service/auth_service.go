package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/densitymap/densitymap/internal/repository"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/hash"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisteredUser is the minimal public shape returned by Register.
type RegisteredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type AuthResponse struct {
	User        interface{} `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	search   SearchService
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, search SearchService, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:     repo,
		search:   search,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	// Usernames are stored lowercased, which makes the uniqueness
	// check and the login lookup case-insensitive.
	username := strings.ToLower(strings.TrimSpace(input.Username))

	if len(username) < 2 {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Username must be at least 2 characters")
	}
	if len(input.Password) < 6 {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Password must be at least 6 characters")
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, apperror.Wrap(apperror.ErrConflict, "Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	salt, err := hash.NewSalt()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash.Password(input.Password, salt),
		Salt:         salt,
		TrustLevel:   1.0,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The unique index catches a concurrent registration the read
		// check above raced with.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrConflict, "Username already taken")
		}
		return nil, err
	}

	// Search indexing is best effort; the account exists either way.
	if s.search != nil {
		if err := s.search.IndexUser(user); err != nil {
			log.Printf("failed to index user %s for search: %v", user.ID, err)
		}
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: RegisteredUser{
			ID:       user.ID.String(),
			Username: user.Username,
		},
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
	}, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if input.Username == "" || input.Password == "" {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "Username and password required")
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))

	// The same message for unknown user and wrong password, so a
	// caller cannot probe which usernames exist.
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrUnauthorized, "Invalid username or password")
		}
		return nil, err
	}

	if !hash.VerifyPassword(input.Password, user.Salt, user.PasswordHash) {
		return nil, apperror.Wrap(apperror.ErrUnauthorized, "Invalid username or password")
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
