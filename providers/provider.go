package providers

import (
	"context"

	"menu-import-service/models"
)

// VisionCompleter sends one prompt plus one image to a multimodal model and
// returns the raw text answer. The caller owns parsing.
type VisionCompleter interface {
	Complete(ctx context.Context, prompt string, image models.UploadedImage) (string, error)
}

// ImageSearcher looks a query up against a photo search API. An empty URL
// with a nil error means "no result", which is not a failure.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// ImageGenerator produces a product image from a text prompt. A nil
// candidate with a nil error means the provider had nothing usable.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*models.ImageCandidate, error)
}
