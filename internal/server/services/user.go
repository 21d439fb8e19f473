// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and resolving bearer tokens
// back to users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// Client-facing messages returned by UserService.
const (
	MsgRegisterFieldsRequired = "Please provide name, email and password"
	MsgUserExists             = "User already exists"
	MsgLoginFieldsRequired    = "Please provide email and password"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgNotAuthorized          = "Not authorized to access this route"
	MsgPasswordTooLong        = "Password must be at most 72 bytes"
)

// UserSummary is returned by Register and Login.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// UserService provides authentication-related operations:
// - Register: create users and issue their first token
// - Login: verify credentials and issue a token
// - Authenticate: resolve a bearer token to a live user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.TokenIssuer
	bcryptCost  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenValidityDuration),
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register creates a user and returns it together with a fresh token.
// A taken email yields ErrAlreadyExists whether it is caught by the lookup
// or by the unique constraint when two registrations race.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*UserSummary, error) {
	if name == "" || email == "" || password == "" {
		return nil, common.NewError(common.ErrValidation, MsgRegisterFieldsRequired)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, common.NewError(common.ErrValidation, MsgPasswordTooLong)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email, false)
	if err == nil {
		return nil, common.NewError(common.ErrAlreadyExists, MsgUserExists)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.NewError(common.ErrAlreadyExists, MsgUserExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.summarize(user)
}

// Login checks the credentials and returns a fresh token. An unknown email
// and a wrong password fail with the same message.
func (s *UserService) Login(ctx context.Context, email, password string) (*UserSummary, error) {
	if email == "" || password == "" {
		return nil, common.NewError(common.ErrValidation, MsgLoginFieldsRequired)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorUnauthorized, MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.NewError(common.ErrorUnauthorized, MsgInvalidCredentials)
	}

	return s.summarize(user)
}

// Authenticate verifies token and loads the user it names. Every failure is
// ErrorUnauthorized; token failures additionally match ErrInvalidToken or
// ErrTokenExpired, and a user deleted since issuance matches ErrorNotFound.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	unauthorized := common.NewError(common.ErrorUnauthorized, MsgNotAuthorized)
	if token == "" {
		return nil, unauthorized
	}

	userID, err := s.issuer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", unauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %w", unauthorized, err)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// CurrentUser returns the identity attached to the request by the auth
// middleware. It performs no store access.
func (s *UserService) CurrentUser(identity *models.User) (*models.User, error) {
	if identity == nil {
		return nil, common.NewError(common.ErrorUnauthorized, MsgNotAuthorized)
	}
	return identity, nil
}

func (s *UserService) summarize(user *models.User) (*UserSummary, error) {
	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Token: token}, nil
}
