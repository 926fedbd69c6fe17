package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/cache"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

func newAuthFixture() (*mockUserStore, *mockAuthenticator, *auth.Tokens, *AuthService) {
	store := &mockUserStore{}
	authn := &mockAuthenticator{}
	tokens := auth.NewTokens("test-secret", 2*time.Hour)
	users := NewUserService(store, cache.New(nil, "user-ids", time.Minute))
	return store, authn, tokens, NewAuthService(users, authn, tokens, clock)
}

func TestRegisterUser(t *testing.T) {
	store, _, _, svc := newAuthFixture()
	ctx := context.Background()

	store.On("ExistsByUsername", ctx, "isatoltar").Return(false, nil)
	store.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil)

	out, err := svc.RegisterUser(ctx, RegisterRequest{Name: "Isa", Username: "isatoltar", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, RegisterResponse{ID: 1, Name: "Isa", Username: "isatoltar"}, out)

	stored := store.Calls[1].Arguments.Get(1).(*models.User)
	assert.NotEqual(t, "secret", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "secret"))
}

func TestRegisterExistingUsername(t *testing.T) {
	store, _, _, svc := newAuthFixture()
	ctx := context.Background()
	store.On("ExistsByUsername", ctx, "isatoltar").Return(true, nil)

	_, err := svc.RegisterUser(ctx, RegisterRequest{Name: "Isa", Username: "isatoltar", Password: "secret"})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "User with username = isatoltar already exists", err.Error())
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterRaceOnUniqueIndex(t *testing.T) {
	store, _, _, svc := newAuthFixture()
	ctx := context.Background()
	store.On("ExistsByUsername", ctx, "isatoltar").Return(false, nil)
	store.On("Create", ctx, mock.Anything).Return(orm.ErrDuplicate)

	_, err := svc.RegisterUser(ctx, RegisterRequest{Name: "Isa", Username: "isatoltar", Password: "secret"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAuthenticateUserIssuesToken(t *testing.T) {
	authn := &mockAuthenticator{}
	tokens := auth.NewTokens("test-secret", 2*time.Hour)
	now := time.Now().Truncate(time.Second)
	svc := NewAuthService(nil, authn, tokens, func() time.Time { return now })
	ctx := context.Background()

	authn.On("Authenticate", ctx, "isatoltar", "secret").
		Return(auth.Identity{Username: "isatoltar", Privileges: []string{"ORDER_READ"}}, nil)

	out, err := svc.AuthenticateUser(ctx, AuthRequest{Username: "isatoltar", Password: "secret"})
	require.NoError(t, err)

	id, err := tokens.Validate(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{Username: "isatoltar", Privileges: []string{"ORDER_READ"}}, id)
}

func TestAuthenticateUserPropagatesUnauthorized(t *testing.T) {
	_, authn, _, svc := newAuthFixture()
	ctx := context.Background()
	authn.On("Authenticate", ctx, "isatoltar", "nope").Return(auth.Identity{}, apperror.Unauthorized("Bad credentials"))

	_, err := svc.AuthenticateUser(ctx, AuthRequest{Username: "isatoltar", Password: "nope"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "Bad credentials", err.Error())
}

func TestPasswordAuthenticator(t *testing.T) {
	store := &mockUserStore{}
	users := NewUserService(store, cache.New(nil, "user-ids", time.Minute))
	a := NewPasswordAuthenticator(users)
	ctx := context.Background()

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	store.On("FindByUsername", ctx, "isatoltar").Return(models.User{
		ID: 1, Username: "isatoltar", Password: hash,
		Privileges: []models.Privilege{{Name: "ORDER_READ"}, {Name: "ORDER_CREATE"}},
	}, nil)
	store.On("FindByUsername", ctx, "ghost").Return(models.User{}, orm.ErrNotFound)

	id, err := a.Authenticate(ctx, "isatoltar", "secret")
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{Username: "isatoltar", Privileges: []string{"ORDER_READ", "ORDER_CREATE"}}, id)

	_, err = a.Authenticate(ctx, "isatoltar", "wrong")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = a.Authenticate(ctx, "ghost", "secret")
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "Bad credentials", err.Error())
}

func TestResolveIDMissingUserIsNil(t *testing.T) {
	store := &mockUserStore{}
	users := NewUserService(store, cache.New(nil, "user-ids", time.Minute))
	ctx := context.Background()
	store.On("FindByUsername", ctx, "ghost").Return(models.User{}, orm.ErrNotFound)
	store.On("FindByUsername", ctx, "isatoltar").Return(models.User{ID: 3, Username: "isatoltar"}, nil)

	id, err := users.ResolveID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = users.ResolveID(ctx, "isatoltar")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.EqualValues(t, 3, *id)
}
