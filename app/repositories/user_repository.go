package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername loads a user and its privileges by login name.
// orm.ErrNotFound is returned when no user matches.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := orm.New(ctx, r.db).Model(&models.User{}).Preload("Privileges").Where("username = ?", username).First(&user)
	return user, err
}

func (r *UserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return orm.New(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Exists()
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return orm.New(ctx, r.db).Model(&models.User{}).Where("username = ?", username).Exists()
}

// Create persists a new user together with any privilege associations.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return orm.New(ctx, r.db).Create(user)
}
