package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"menu-import-service/models"
	"menu-import-service/providers"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const extractionPrompt = `You are a menu digitization assistant. Analyze this restaurant menu photo and extract every product you can identify.

Respond with ONLY a JSON array, no prose and no markdown. Each element must have this shape:
{
  "name": "product name",
  "description": "short description or empty string",
  "price": 0.0,
  "category": "menu section this item belongs to",
  "variants": [
    {"type": "Size", "name": "Large", "priceModifier": 2.0, "isAbsolutePrice": false, "isDefault": false}
  ]
}

Rules:
- price is a number, no currency symbols.
- variants is an empty array when the item has no options.
- Use isAbsolutePrice true when the variant price replaces the base price instead of adding to it.
- Skip decorative text, section headers and anything that is not an orderable item.`

// Extractor turns one uploaded menu photo into zero or more product drafts.
type Extractor struct {
	vision   providers.VisionCompleter
	validate *validator.Validate
}

func NewExtractor(vision providers.VisionCompleter) *Extractor {
	return &Extractor{
		vision:   vision,
		validate: validator.New(),
	}
}

// ExtractProducts runs one vision call for the image and parses the answer.
// Failures are swallowed here: a bad photo contributes zero drafts and must
// never abort the batch. There are no per-image retries.
func (e *Extractor) ExtractProducts(ctx context.Context, image models.UploadedImage) []models.ProductDraft {
	raw, err := e.vision.Complete(ctx, extractionPrompt, image)
	if err != nil {
		zap.L().Warn("vision extraction failed",
			zap.String("file", image.Filename),
			zap.Error(err),
		)
		return nil
	}

	drafts, err := parseDrafts(raw)
	if err != nil {
		zap.L().Warn("could not parse extraction response",
			zap.String("file", image.Filename),
			zap.Error(err),
		)
		return nil
	}

	valid := drafts[:0]
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if err := e.validate.Struct(d); err != nil {
			zap.L().Warn("dropping malformed draft", zap.String("name", d.Name), zap.Error(err))
			continue
		}
		valid = append(valid, d)
	}
	return valid
}

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// parseDrafts parses the model's text answer as a JSON array of drafts.
// Direct parse first; on failure a salvage pass extracts the first [...]
// span, which recovers answers wrapped in explanatory prose.
func parseDrafts(raw string) ([]models.ProductDraft, error) {
	cleaned := stripCodeFences(raw)

	var drafts []models.ProductDraft
	if err := json.Unmarshal([]byte(cleaned), &drafts); err == nil {
		return drafts, nil
	}

	span := arrayPattern.FindString(cleaned)
	if span == "" {
		return nil, errors.New("response contains no JSON array")
	}
	if err := json.Unmarshal([]byte(span), &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
