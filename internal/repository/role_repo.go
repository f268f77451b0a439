package repository

import (
	"context"

	"gorm.io/gorm"

	"invoscope/internal/model"
)

type RoleRepository interface {
	List(ctx context.Context) ([]model.Role, error)
	FindByNames(ctx context.Context, names []string) ([]model.Role, error)
	EnsureDefaults(ctx context.Context, defaults []model.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Order("name asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) FindByNames(ctx context.Context, names []string) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// EnsureDefaults creates any missing built-in roles. Existing rows are
// left untouched.
func (r *roleRepository) EnsureDefaults(ctx context.Context, defaults []model.Role) error {
	db := GetDB(ctx, r.db)
	for _, role := range defaults {
		if err := db.Where("name = ?", role.Name).FirstOrCreate(&model.Role{}, role).Error; err != nil {
			return err
		}
	}
	return nil
}
