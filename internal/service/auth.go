package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tyrecheck/tyrecheck-go/internal/crypto"
	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/repository"
)

const tokenTypeBearer = "bearer"

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnauthenticated    = errors.New("could not validate credentials")
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByName(ctx context.Context, name string) (*model.User, error)
}

// AuthService handles signup, login and bearer token resolution.
type AuthService struct {
	users  UserStore
	hasher *crypto.Hasher
	tokens *crypto.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *crypto.Hasher, tokens *crypto.TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user account. The name is checked up front so the
// common conflict never reaches the insert; a concurrent signup that races
// past the check is still caught by the unique index.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return ErrUsernameRequired
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}

	_, err := s.users.GetByName(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return fmt.Errorf("looking up user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return err
	}

	user := &model.User{
		Name:         username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

// Login checks a username and password and returns a bearer token. Unknown
// users and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.TokenResponse{}, ErrUsernameRequired
	}
	if req.Password == "" {
		return model.TokenResponse{}, ErrPasswordRequired
	}

	user, err := s.users.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Name)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
	}, nil
}

// Authenticate resolves a bearer token to the user it was issued for. A
// valid token whose user no longer exists is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	name, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolving token subject: %w", err)
	}

	return user, nil
}
