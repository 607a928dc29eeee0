package repository

import (
	"context"
	"errors"

	"menu-import-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

// GetOrCreateType returns the owner's variant type with the given name,
// creating it when it does not exist yet.
func (r *VariantRepository) GetOrCreateType(ctx context.Context, ownerID uuid.UUID, name string) (*models.VariantType, error) {
	var vt models.VariantType
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND LOWER(name) = LOWER(?)", ownerID, name).
		First(&vt).Error
	if err == nil {
		return &vt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vt = models.VariantType{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := r.db.WithContext(ctx).Create(&vt).Error; err != nil {
		return nil, err
	}
	return &vt, nil
}

func (r *VariantRepository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(variant).Error
}
