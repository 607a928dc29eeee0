package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"menu-import-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCurrency = "USD"
	defaultStockMax = 100
)

// ImportService drives the whole menu digitization pipeline for one batch:
// extraction, reconciliation, image sourcing, persistence. It is single
// flight per request; nothing it holds is shared across runs.
type ImportService struct {
	productRepo  ProductRepo
	categoryRepo CategoryRepo
	variantRepo  VariantRepo
	extractor    *Extractor
	sourcer      *ImageSourcer
	publisher    CompletionPublisher // optional
}

func NewImportService(
	productRepo ProductRepo,
	categoryRepo CategoryRepo,
	variantRepo VariantRepo,
	extractor *Extractor,
	sourcer *ImageSourcer,
	publisher CompletionPublisher,
) *ImportService {
	return &ImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		variantRepo:  variantRepo,
		extractor:    extractor,
		sourcer:      sourcer,
		publisher:    publisher,
	}
}

// Run processes the batch and streams progress events on the returned
// channel. The channel is closed after the terminal event; exactly one of
// `complete`/`error` is always last. When ctx is canceled (client gone) the
// pipeline stops emitting and winds down.
func (s *ImportService) Run(ctx context.Context, ownerID uuid.UUID, images []models.UploadedImage, opts ImportOptions) <-chan models.ProgressEvent {
	ch := make(chan models.ProgressEvent, 8)

	go func() {
		defer close(ch)
		emit := func(ev models.ProgressEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		s.run(ctx, ownerID, images, opts, emit)
	}()

	return ch
}

func (s *ImportService) run(ctx context.Context, ownerID uuid.UUID, images []models.UploadedImage, opts ImportOptions, emit func(models.ProgressEvent) bool) {
	if !emit(models.ProgressEvent{Type: models.EventStart, Message: "Starting menu import"}) {
		return
	}

	if ownerID == uuid.Nil {
		emit(models.ProgressEvent{Type: models.EventError, Message: "Unauthenticated"})
		return
	}
	if len(images) == 0 {
		emit(models.ProgressEvent{Type: models.EventError, Message: "No files uploaded"})
		return
	}

	resolver, err := NewCatalogResolver(ctx, s.categoryRepo, s.productRepo, ownerID)
	if err != nil {
		emit(models.ProgressEvent{
			Type:    models.EventError,
			Message: "Could not load catalog",
			Details: err.Error(),
		})
		return
	}

	// Stage 1: extraction, strictly sequential. Sequencing bounds load on
	// the rate-limited vision provider and keeps event order deterministic.
	var drafts []models.ProductDraft
	for i, img := range images {
		if !emit(models.ProgressEvent{
			Type:    models.EventAnalyzing,
			Message: fmt.Sprintf("Analyzing image %d of %d", i+1, len(images)),
		}) {
			return
		}
		drafts = append(drafts, s.extractor.ExtractProducts(ctx, img)...)
	}

	if len(drafts) == 0 {
		emit(models.ProgressEvent{Type: models.EventError, Message: "No products could be extracted from the uploaded images"})
		return
	}
	if !emit(models.ProgressEvent{Type: models.EventExtracted, Count: len(drafts)}) {
		return
	}

	result := &models.ImportResult{
		TotalExtracted: len(drafts),
		Errors:         []string{},
	}
	variantTypeCache := make(map[string]uuid.UUID)

	// Stage 2: per-draft reconciliation, sourcing and persistence. A single
	// draft's failure is recorded and the batch continues.
	for i, draft := range drafts {
		if ctx.Err() != nil {
			return
		}
		if !s.processDraft(ctx, ownerID, resolver, variantTypeCache, draft, i+1, len(drafts), opts, result, emit) {
			return
		}
	}

	if !emit(models.ProgressEvent{Type: models.EventComplete, Result: result}) {
		return
	}

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishImportCompleted(pubCtx, ownerID, *result); err != nil {
			zap.L().Warn("failed to publish import completion", zap.Error(err))
		}
	}
}

// processDraft handles one draft end to end. Returns false only when the
// client has disconnected and the run should stop.
func (s *ImportService) processDraft(
	ctx context.Context,
	ownerID uuid.UUID,
	resolver *CatalogResolver,
	variantTypeCache map[string]uuid.UUID,
	draft models.ProductDraft,
	current, total int,
	opts ImportOptions,
	result *models.ImportResult,
	emit func(models.ProgressEvent) bool,
) (alive bool) {
	alive = true
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("panic while processing draft",
				zap.String("product", draft.Name),
				zap.Any("panic", r),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to process %s: internal error", draft.Name))
		}
	}()

	categoryID, err := resolver.ResolveCategory(ctx, draft.Category)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("No category assignable for %s", draft.Name))
		return true
	}

	match := resolver.MatchProduct(draft.Name)

	imageURL := ""
	if match == nil && (opts.SearchWebImages || opts.GenerateAIImages) {
		var ok bool
		imageURL, ok = s.sourceImage(ctx, draft, current, total, opts, emit)
		if !ok {
			return false
		}
	}

	if match != nil {
		match.CategoryID = categoryID
		match.IsActive = true
		match.ShowOnDigitalMenu = true
		if draft.Price > 0 {
			match.Price = draft.Price
		}
		if draft.Description != "" {
			match.Description = draft.Description
		}
		if err := s.productRepo.Update(ctx, match); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to update %s: %v", draft.Name, err))
			return true
		}
		result.ProductsUpdated++
		if !emit(models.ProgressEvent{
			Type:        models.EventProductSaved,
			ProductName: draft.Name,
			Current:     current,
			Total:       total,
			Action:      "updated",
		}) {
			return false
		}
		s.createVariants(ctx, ownerID, match.ID, draft, variantTypeCache, emit)
		return true
	}

	product := &models.Product{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		CategoryID:        categoryID,
		Name:              draft.Name,
		Description:       draft.Description,
		Price:             draft.Price,
		Currency:          defaultCurrency,
		SKU:               generateSKU(draft.Name),
		ImageURL:          imageURL,
		StockMin:          0,
		StockMax:          defaultStockMax,
		IsActive:          true,
		ShowOnDigitalMenu: true,
		ShowOnPOS:         true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to create %s: %v", draft.Name, err))
		return true
	}
	result.ProductsAdded++
	if !emit(models.ProgressEvent{
		Type:        models.EventProductSaved,
		ProductName: draft.Name,
		Current:     current,
		Total:       total,
		Action:      "created",
	}) {
		return false
	}
	s.createVariants(ctx, ownerID, product.ID, draft, variantTypeCache, emit)
	return true
}

// sourceImage walks the provider chain for a new product: web search first,
// AI generation only when enabled and search came up empty. Returns the
// public URL ("" when nothing was sourced) and whether the client is still
// connected.
func (s *ImportService) sourceImage(ctx context.Context, draft models.ProductDraft, current, total int, opts ImportOptions, emit func(models.ProgressEvent) bool) (string, bool) {
	var candidate *models.ImageCandidate

	if opts.SearchWebImages {
		if !emit(models.ProgressEvent{
			Type:        models.EventSearchingImage,
			ProductName: draft.Name,
			Current:     current,
			Total:       total,
		}) {
			return "", false
		}
		candidate = s.sourcer.SearchWeb(ctx, draft.Name, draft.Category)
		if candidate != nil {
			if !emit(models.ProgressEvent{Type: models.EventImageFound, ProductName: draft.Name}) {
				return "", false
			}
		} else if !emit(models.ProgressEvent{
			Type:        models.EventImageNotFound,
			ProductName: draft.Name,
			Source:      "web",
		}) {
			return "", false
		}
	}

	if candidate == nil && opts.GenerateAIImages {
		if !emit(models.ProgressEvent{
			Type:        models.EventGeneratingImage,
			ProductName: draft.Name,
			Current:     current,
			Total:       total,
		}) {
			return "", false
		}
		candidate = s.sourcer.Generate(ctx, draft.Name, draft.Description)
		if candidate != nil {
			if !emit(models.ProgressEvent{Type: models.EventImageGenerated, ProductName: draft.Name}) {
				return "", false
			}
		} else if !emit(models.ProgressEvent{
			Type:        models.EventImageNotFound,
			ProductName: draft.Name,
			Source:      "ai",
		}) {
			return "", false
		}
	}

	if candidate == nil {
		return "", true
	}

	publicURL, err := s.sourcer.Store(ctx, candidate, draft.Name)
	if err != nil {
		// Never fatal: the product is simply persisted without an image.
		zap.L().Warn("image store failed",
			zap.String("product", draft.Name),
			zap.String("source", candidate.Source),
			zap.Error(err),
		)
		return "", true
	}
	return publicURL, true
}

// createVariants persists the draft's variant rows. Variant types are
// memoized per request so each (type, owner) pair is created at most once.
// Variant-level failures are logged and skipped; they never roll back the
// parent product or surface in the terminal error list.
func (s *ImportService) createVariants(ctx context.Context, ownerID, productID uuid.UUID, draft models.ProductDraft, typeCache map[string]uuid.UUID, emit func(models.ProgressEvent) bool) {
	if len(draft.Variants) == 0 {
		return
	}

	created := 0
	for i, v := range draft.Variants {
		typeName := strings.TrimSpace(v.Type)
		if typeName == "" {
			typeName = "Option"
		}

		cacheKey := strings.ToLower(typeName)
		typeID, ok := typeCache[cacheKey]
		if !ok {
			vt, err := s.variantRepo.GetOrCreateType(ctx, ownerID, typeName)
			if err != nil {
				zap.L().Warn("variant type resolution failed",
					zap.String("product", draft.Name),
					zap.String("type", typeName),
					zap.Error(err),
				)
				continue
			}
			typeID = vt.ID
			typeCache[cacheKey] = typeID
		}

		variant := &models.Variant{
			ID:              uuid.New(),
			ProductID:       productID,
			VariantTypeID:   typeID,
			Name:            v.Name,
			PriceModifier:   v.PriceModifier,
			IsAbsolutePrice: v.IsAbsolutePrice,
			IsDefault:       v.IsDefault,
			SortOrder:       i,
		}
		if err := s.variantRepo.CreateVariant(ctx, variant); err != nil {
			zap.L().Warn("variant creation failed",
				zap.String("product", draft.Name),
				zap.String("variant", v.Name),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	emit(models.ProgressEvent{
		Type:         models.EventVariantsCreated,
		ProductName:  draft.Name,
		VariantCount: &created,
	})
}

func generateSKU(name string) string {
	base := []rune(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "-")))
	if len(base) > 12 {
		base = base[:12]
	}
	return fmt.Sprintf("MENU-%s-%s", string(base), uuid.NewString()[:8])
}
