package services

import (
	"context"
	"errors"
	"testing"

	"menu-import-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestResolver(t *testing.T, categories []models.Category, products []models.Product) (*CatalogResolver, *MockCategoryRepo) {
	t.Helper()
	ownerID := uuid.New()

	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("ListByOwner", mock.Anything, ownerID).Return(categories, nil)

	productRepo := new(MockProductRepo)
	productRepo.On("ListByOwner", mock.Anything, ownerID).Return(products, nil)

	resolver, err := NewCatalogResolver(context.Background(), categoryRepo, productRepo, ownerID)
	assert.NoError(t, err)
	return resolver, categoryRepo
}

func TestResolveCategoryCreatesOncePerName(t *testing.T) {
	resolver, categoryRepo := newTestResolver(t, []models.Category{}, nil)
	categoryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	first, err := resolver.ResolveCategory(context.Background(), "Bebidas")
	assert.NoError(t, err)

	second, err := resolver.ResolveCategory(context.Background(), "Bebidas")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	categoryRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestResolveCategoryCaseInsensitiveMatch(t *testing.T) {
	existing := models.Category{ID: uuid.New(), Name: "Bebidas"}
	resolver, categoryRepo := newTestResolver(t, []models.Category{existing}, nil)

	id, err := resolver.ResolveCategory(context.Background(), "BEBIDAS")
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, id)
	categoryRepo.AssertNotCalled(t, "Create")
}

func TestResolveCategoryDefaultsEmptyName(t *testing.T) {
	resolver, categoryRepo := newTestResolver(t, []models.Category{}, nil)
	categoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Uncategorized" && c.ShowOnDigitalMenu && !c.ShowOnPOS
	})).Return(nil)

	_, err := resolver.ResolveCategory(context.Background(), "   ")
	assert.NoError(t, err)
	categoryRepo.AssertExpectations(t)
}

func TestResolveCategoryFallsBackToFirstExisting(t *testing.T) {
	existing := models.Category{ID: uuid.New(), Name: "Platos"}
	resolver, categoryRepo := newTestResolver(t, []models.Category{existing}, nil)
	categoryRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	id, err := resolver.ResolveCategory(context.Background(), "Postres")
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, id)
}

func TestResolveCategoryFailsWithNoFallback(t *testing.T) {
	resolver, categoryRepo := newTestResolver(t, []models.Category{}, nil)
	categoryRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := resolver.ResolveCategory(context.Background(), "Postres")
	assert.Error(t, err)
}

func TestMatchProductExactIgnoresCaseAndWhitespace(t *testing.T) {
	existing := models.Product{ID: uuid.New(), Name: "café americano "}
	resolver, _ := newTestResolver(t, nil, []models.Product{existing})

	match := resolver.MatchProduct("Café Americano")
	assert.NotNil(t, match)
	assert.Equal(t, existing.ID, match.ID)
}

func TestMatchProductSubstringWithLengthFloor(t *testing.T) {
	queso := models.Product{ID: uuid.New(), Name: "Empanada de Queso"}
	teHelado := models.Product{ID: uuid.New(), Name: "Té Helado"}
	resolver, _ := newTestResolver(t, nil, []models.Product{queso, teHelado})

	// "Empanada" is long enough for containment to count as a merge.
	match := resolver.MatchProduct("Empanada")
	assert.NotNil(t, match)
	assert.Equal(t, queso.ID, match.ID)

	// "Té" is below the floor: substring containment must not match.
	assert.Nil(t, resolver.MatchProduct("Té"))
}

func TestMatchProductLengthFloorCountsRunesNotBytes(t *testing.T) {
	conLeche := models.Product{ID: uuid.New(), Name: "Café con Leche"}
	resolver, _ := newTestResolver(t, nil, []models.Product{conLeche})

	// "Café" is 4 characters but 5 bytes in UTF-8. It stays below the
	// floor, so it creates a new product rather than merging.
	assert.Nil(t, resolver.MatchProduct("Café"))

	// A 5-character accented name clears the floor and merges.
	jamon := models.Product{ID: uuid.New(), Name: "Pupusa de Jamón"}
	resolver, _ = newTestResolver(t, nil, []models.Product{jamon})
	match := resolver.MatchProduct("Jamón")
	assert.NotNil(t, match)
	assert.Equal(t, jamon.ID, match.ID)
}

func TestMatchProductFirstCatalogOrderWins(t *testing.T) {
	first := models.Product{ID: uuid.New(), Name: "Pupusa Revuelta"}
	second := models.Product{ID: uuid.New(), Name: "Pupusa de Queso"}
	resolver, _ := newTestResolver(t, nil, []models.Product{first, second})

	match := resolver.MatchProduct("Pupusa")
	assert.NotNil(t, match)
	assert.Equal(t, first.ID, match.ID)
}

func TestMatchProductNoMatch(t *testing.T) {
	existing := models.Product{ID: uuid.New(), Name: "Tamal de Elote"}
	resolver, _ := newTestResolver(t, nil, []models.Product{existing})

	assert.Nil(t, resolver.MatchProduct("Horchata"))
}
