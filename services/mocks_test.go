package services

import (
	"context"

	"menu-import-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks for repository contracts ---

type MockProductRepo struct{ mock.Mock }

func (m *MockProductRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepo) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type MockCategoryRepo struct{ mock.Mock }

func (m *MockCategoryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *MockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

type MockVariantRepo struct{ mock.Mock }

func (m *MockVariantRepo) GetOrCreateType(ctx context.Context, ownerID uuid.UUID, name string) (*models.VariantType, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariantType), args.Error(1)
}
func (m *MockVariantRepo) CreateVariant(ctx context.Context, variant *models.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

// --- Hand-rolled provider fakes ---

// fakeVision returns one canned answer per call, in order.
type fakeVision struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeVision) Complete(ctx context.Context, prompt string, image models.UploadedImage) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "[]", nil
}

type fakeSearcher struct {
	url     string
	err     error
	queries []string
}

func (f *fakeSearcher) SearchImage(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.url, f.err
}

type fakeGenerator struct {
	candidate *models.ImageCandidate
	err       error
	calls     int
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) (*models.ImageCandidate, error) {
	f.calls++
	return f.candidate, f.err
}

type fakeUploader struct {
	url             string
	err             error
	calls           int
	lastContentType string
	lastKey         string
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, contentType, key string) (string, error) {
	f.calls++
	f.lastContentType = contentType
	f.lastKey = key
	return f.url, f.err
}
