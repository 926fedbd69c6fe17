package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
	"github.com/shashiranjanraj/pizzeria/pkg/metrics"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

// Authenticator verifies credentials and returns the verified identity.
// A mismatch is reported as an apperror Unauthorized.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (auth.Identity, error)
}

// Accounts is the user access AuthService needs.
type Accounts interface {
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// TokenIssuer mints access tokens.
type TokenIssuer interface {
	Generate(subject string, privileges []string, now time.Time) (string, error)
}

type AuthService struct {
	accounts      Accounts
	authenticator Authenticator
	tokens        TokenIssuer
	now           func() time.Time
}

func NewAuthService(accounts Accounts, authenticator Authenticator, tokens TokenIssuer, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{accounts: accounts, authenticator: authenticator, tokens: tokens, now: now}
}

// RegisterUser stores a new user with a bcrypt-hashed password.
func (s *AuthService) RegisterUser(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	taken, err := s.accounts.UsernameTaken(ctx, req.Username)
	if err != nil {
		return RegisterResponse{}, err
	}
	if taken {
		return RegisterResponse{}, usernameConflict(req.Username)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Name: req.Name, Username: req.Username, Password: hash}
	if err := s.accounts.Create(ctx, &user); err != nil {
		if orm.IsDuplicate(err) {
			return RegisterResponse{}, usernameConflict(req.Username)
		}
		return RegisterResponse{}, fmt.Errorf("create user: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return toRegisterResponse(user), nil
}

func usernameConflict(username string) error {
	return apperror.Conflict("User with username = %s already exists", username)
}

// AuthenticateUser verifies credentials and issues an access token
// carrying the user's privileges.
func (s *AuthService) AuthenticateUser(ctx context.Context, req AuthRequest) (AuthResponse, error) {
	id, err := s.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return AuthResponse{}, err
	}

	token, err := s.tokens.Generate(id.Username, id.Privileges, s.now())
	if err != nil {
		return AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return AuthResponse{AccessToken: token}, nil
}

// UserLookup loads a user with privileges by login name.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (models.User, bool, error)
}

// PasswordAuthenticator checks credentials against stored bcrypt hashes.
type PasswordAuthenticator struct {
	users UserLookup
}

func NewPasswordAuthenticator(users UserLookup) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// Authenticate returns the same Unauthorized error for an unknown user and
// a wrong password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	user, found, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return auth.Identity{}, err
	}
	if !found || !auth.CheckPassword(user.Password, password) {
		return auth.Identity{}, apperror.Unauthorized("Bad credentials")
	}
	return auth.Identity{Username: user.Username, Privileges: user.PrivilegeNames()}, nil
}
