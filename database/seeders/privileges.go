package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/app/repositories"
	"github.com/shashiranjanraj/pizzeria/config"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
)

const adminUsername = "admin"

func init() {
	Register("privileges", SeedPrivileges)
	Register("admin user", SeedAdmin)
}

func SeedPrivileges(ctx context.Context, db *gorm.DB) error {
	_, err := repositories.NewPrivilegeRepository(db).EnsureNamed(ctx, models.DefaultPrivileges)
	return err
}

// SeedAdmin creates the admin account with every default privilege unless
// it already exists. The password comes from ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	users := repositories.NewUserRepository(db)
	exists, err := users.ExistsByUsername(ctx, adminUsername)
	if err != nil || exists {
		return err
	}

	privileges, err := repositories.NewPrivilegeRepository(db).EnsureNamed(ctx, models.DefaultPrivileges)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "admin"))
	if err != nil {
		return err
	}

	admin := &models.User{Name: "Administrator", Username: adminUsername, Password: hash, Privileges: privileges}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("seeded admin user", "user_id", admin.ID)
	return nil
}
