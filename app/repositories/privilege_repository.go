package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

type PrivilegeRepository struct {
	db *gorm.DB
}

func NewPrivilegeRepository(db *gorm.DB) *PrivilegeRepository {
	return &PrivilegeRepository{db: db}
}

// EnsureNamed creates any missing privileges by name and returns all of
// them in the order given.
func (r *PrivilegeRepository) EnsureNamed(ctx context.Context, names []string) ([]models.Privilege, error) {
	for _, n := range names {
		p := models.Privilege{Name: n}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
			return nil, err
		}
	}

	var found []models.Privilege
	if err := orm.New(ctx, r.db).Model(&models.Privilege{}).Where("name IN ?", names).Get(&found); err != nil {
		return nil, err
	}

	byName := make(map[string]models.Privilege, len(found))
	for _, p := range found {
		byName[p.Name] = p
	}
	out := make([]models.Privilege, 0, len(names))
	for _, n := range names {
		if p, ok := byName[n]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
