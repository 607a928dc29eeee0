package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"menu-import-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCategoryName = "Uncategorized"

// CatalogResolver reconciles extracted drafts against the owner's existing
// catalog. One resolver lives for exactly one import run: its category cache
// prevents duplicate-category races within a batch and is never shared.
type CatalogResolver struct {
	categoryRepo CategoryRepo
	ownerID      uuid.UUID

	categories []models.Category
	products   []models.Product

	// category name (as extracted, not normalized) -> resolved id
	categoryCache map[string]uuid.UUID
}

func NewCatalogResolver(ctx context.Context, categoryRepo CategoryRepo, productRepo ProductRepo, ownerID uuid.UUID) (*CatalogResolver, error) {
	categories, err := categoryRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	products, err := productRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	return &CatalogResolver{
		categoryRepo:  categoryRepo,
		ownerID:       ownerID,
		categories:    categories,
		products:      products,
		categoryCache: make(map[string]uuid.UUID),
	}, nil
}

// ResolveCategory maps a free-text category name to a category id, in order:
// request cache, case-insensitive match, create, first existing category.
// When all of those fail the draft cannot be persisted.
func (r *CatalogResolver) ResolveCategory(ctx context.Context, name string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		name = defaultCategoryName
	}

	if id, ok := r.categoryCache[name]; ok {
		return id, nil
	}

	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			r.categoryCache[name] = c.ID
			return c.ID, nil
		}
	}

	created := &models.Category{
		ID:                uuid.New(),
		OwnerID:           r.ownerID,
		Name:              name,
		ShowOnDigitalMenu: true,
		ShowOnPOS:         false,
	}
	if err := r.categoryRepo.Create(ctx, created); err != nil {
		zap.L().Warn("category creation failed, falling back",
			zap.String("category", name),
			zap.Error(err),
		)
		if len(r.categories) > 0 {
			r.categoryCache[name] = r.categories[0].ID
			return r.categories[0].ID, nil
		}
		return uuid.Nil, fmt.Errorf("no category assignable for %q", name)
	}

	r.categories = append(r.categories, *created)
	r.categoryCache[name] = created.ID
	return created.ID, nil
}

// MatchProduct decides whether a draft merges into an existing product.
// Rule: exact match after lowercase+trim, otherwise containment either way
// when both normalized names are at least 5 characters. First catalog-order
// match wins. Deliberately a cheap heuristic, not edit distance.
func (r *CatalogResolver) MatchProduct(name string) *models.Product {
	candidate := normalizeName(name)
	if candidate == "" {
		return nil
	}

	for i := range r.products {
		existing := normalizeName(r.products[i].Name)
		if existing == candidate {
			return &r.products[i]
		}
		minLen := utf8.RuneCountInString(existing)
		if n := utf8.RuneCountInString(candidate); n < minLen {
			minLen = n
		}
		if minLen >= 5 && (strings.Contains(existing, candidate) || strings.Contains(candidate, existing)) {
			return &r.products[i]
		}
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
