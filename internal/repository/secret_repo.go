package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoscope/internal/model"
)

type SecretRepository interface {
	Create(ctx context.Context, secret *model.Secret) error
	FindByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*model.Secret, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Secret, error)
	List(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Secret, int64, error)
	Update(ctx context.Context, secret *model.Secret) error
	Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}

type secretRepository struct {
	db *gorm.DB
}

func NewSecretRepository(db *gorm.DB) SecretRepository {
	return &secretRepository{db: db}
}

func (r *secretRepository) Create(ctx context.Context, secret *model.Secret) error {
	return GetDB(ctx, r.db).Create(secret).Error
}

func (r *secretRepository) FindByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*model.Secret, error) {
	var secret model.Secret
	q := scopeTenant(GetDB(ctx, r.db), tenantID)
	if err := q.First(&secret, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &secret, nil
}

func (r *secretRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Secret, error) {
	var secret model.Secret
	q := scopeTenant(GetDB(ctx, r.db), tenantID)
	if err := q.First(&secret, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &secret, nil
}

func (r *secretRepository) List(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Secret, int64, error) {
	var secrets []model.Secret
	var total int64

	db := GetDB(ctx, r.db)
	if err := scopeTenant(db.Model(&model.Secret{}), tenantID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := scopeTenant(db, tenantID).Order("name asc").Offset(offset).Limit(limit).Find(&secrets).Error; err != nil {
		return nil, 0, err
	}

	return secrets, total, nil
}

func (r *secretRepository) Update(ctx context.Context, secret *model.Secret) error {
	return GetDB(ctx, r.db).Save(secret).Error
}

func (r *secretRepository) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	q := scopeTenant(GetDB(ctx, r.db), tenantID)
	res := q.Where("id = ?", id).Delete(&model.Secret{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
