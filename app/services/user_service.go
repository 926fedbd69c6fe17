package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/cache"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

// UserStore is the persistence the user and auth services need.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// UserService wraps user lookups. Username→id resolution is cached since
// users are never renamed or deleted.
type UserService struct {
	users UserStore
	ids   *cache.Store
}

// NewUserService builds the service; ids may be a disabled store.
func NewUserService(users UserStore, ids *cache.Store) *UserService {
	return &UserService{users: users, ids: ids}
}

// FindByUsername loads the user with privileges. found is false when no
// user has that login name.
func (s *UserService) FindByUsername(ctx context.Context, username string) (user models.User, found bool, err error) {
	user, err = s.users.FindByUsername(ctx, username)
	switch {
	case orm.IsNotFound(err):
		return models.User{}, false, nil
	case err != nil:
		return models.User{}, false, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, true, nil
}

// ResolveID returns the id of username, or nil when no such user exists.
func (s *UserService) ResolveID(ctx context.Context, username string) (*uint, error) {
	var id uint
	if s.ids.Get(ctx, username, &id) {
		return &id, nil
	}

	user, found, err := s.FindByUsername(ctx, username)
	if err != nil || !found {
		return nil, err
	}

	if err := s.ids.Set(ctx, username, user.ID); err != nil {
		logger.WithCtx(ctx).Warn("user id cache write failed", "username", username, "error", err)
	}
	return &user.ID, nil
}

func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return ok, nil
}

func (s *UserService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	ok, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username %q: %w", username, err)
	}
	return ok, nil
}

func (s *UserService) Create(ctx context.Context, user *models.User) error {
	return s.users.Create(ctx, user)
}
