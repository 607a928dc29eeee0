package services

import (
	"context"

	"menu-import-service/models"

	"github.com/google/uuid"
)

// Repository contracts the pipeline consumes. Concrete gorm implementations
// live in the repository package.

type ProductRepo interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
}

type CategoryRepo interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

type VariantRepo interface {
	GetOrCreateType(ctx context.Context, ownerID uuid.UUID, name string) (*models.VariantType, error)
	CreateVariant(ctx context.Context, variant *models.Variant) error
}

// ImageUploader is the storage sink: raw bytes in, public URL out.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType, key string) (string, error)
}

// CompletionPublisher announces a finished import to downstream consumers.
type CompletionPublisher interface {
	PublishImportCompleted(ctx context.Context, ownerID uuid.UUID, result models.ImportResult) error
}

// ImportOptions are the caller-supplied image sourcing flags.
type ImportOptions struct {
	SearchWebImages  bool
	GenerateAIImages bool
}
