package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"journal-backend/pkg/jwt"
)

// Service handles staff authentication and account management.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CreateAccount(ctx context.Context, username, email, displayName, role, password string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	ChangeRole(ctx context.Context, id string, role string) error
}

type LoginResult struct {
	Account      *Account `json:"account"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type service struct {
	directory  Directory
	jwtManager *jwt.Manager
}

func NewService(directory Directory, jwtManager *jwt.Manager) Service {
	return &service{directory: directory, jwtManager: jwtManager}
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.directory.GetByUsername(ctx, username)
	if errors.Is(err, ErrAccountNotFound) {
		// same error as a wrong password, no account enumeration
		return nil, ErrInvalidPassword
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID.String(), account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &LoginResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) CreateAccount(ctx context.Context, username, email, displayName, role, password string) (*Account, error) {
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if role != "editor" && role != "admin" {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.directory.Create(ctx, &Account{
		Username:     username,
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: string(hash),
	})
}

func (s *service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.directory.List(ctx)
}

func (s *service) ChangeRole(ctx context.Context, id string, role string) error {
	if role != "editor" && role != "admin" {
		return fmt.Errorf("invalid role %q", role)
	}

	accountID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}
	return s.directory.UpdateRole(ctx, accountID, role)
}
