package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) FindByTableNos(ctx context.Context, tableNos []int) ([]models.Order, error) {
	args := m.Called(ctx, tableNos)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderStore) FindByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderStore) FindByID(ctx context.Context, id uint) (models.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockOrderStore) CreateAll(ctx context.Context, orders []*models.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func (m *mockOrderStore) Save(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderStore) Delete(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderStore) Page(ctx context.Context, page, size int, column string) ([]models.Order, orm.Pagination, error) {
	args := m.Called(ctx, page, size, column)
	return args.Get(0).([]models.Order), args.Get(1).(orm.Pagination), args.Error(2)
}

type mockOwners struct{ mock.Mock }

func (m *mockOwners) ResolveID(ctx context.Context, username string) (*uint, error) {
	args := m.Called(ctx, username)
	id, _ := args.Get(0).(*uint)
	return id, args.Error(1)
}

func (m *mockOwners) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) Fire(name string, payload interface{}) { m.Called(name, payload) }

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockAuthenticator struct{ mock.Mock }

func (m *mockAuthenticator) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(auth.Identity), args.Error(1)
}

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func uintPtr(v uint) *uint { return &v }
