package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menu-import-service/models"
	"menu-import-service/pkg/httpx"
	"menu-import-service/providers"
	"menu-import-service/storage"

	"go.uber.org/zap"
)

const (
	fallbackTimeout  = 10 * time.Second
	downloadTimeout  = 15 * time.Second
	maxDownloadBytes = 10 << 20 // 10 MB
)

// ImageSourcer finds a photo for a newly created product. Providers are
// tried in a fixed order; every failure is absorbed and the product simply
// stays imageless.
type ImageSourcer struct {
	searcher    providers.ImageSearcher
	generator   providers.ImageGenerator
	uploader    ImageUploader
	fallbackURL string
	httpClient  *http.Client
}

func NewImageSourcer(searcher providers.ImageSearcher, generator providers.ImageGenerator, uploader ImageUploader, fallbackURL string) *ImageSourcer {
	return &ImageSourcer{
		searcher:    searcher,
		generator:   generator,
		uploader:    uploader,
		fallbackURL: fallbackURL,
		httpClient:  &http.Client{},
	}
}

// SearchWeb tries successively looser queries against the photo search API,
// then the keyword redirect fallback. A nil result means nothing was found.
func (s *ImageSourcer) SearchWeb(ctx context.Context, name, category string) *models.ImageCandidate {
	queries := []string{name + " food"}
	if strings.TrimSpace(category) != "" {
		queries = append(queries, name+" "+category+" dish", category+" food")
	} else {
		queries = append(queries, name+" dish")
	}

	for _, q := range queries {
		imgURL, err := s.searcher.SearchImage(ctx, q)
		if err != nil {
			zap.L().Warn("image search failed", zap.String("query", q), zap.Error(err))
			continue
		}
		if imgURL != "" {
			return &models.ImageCandidate{URL: imgURL, Source: "web"}
		}
	}

	if s.fallbackURL == "" {
		return nil
	}
	keywords := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", ","))
	finalURL, err := httpx.ResolveFinalURL(ctx, s.httpClient, s.fallbackURL+"/"+keywords, fallbackTimeout)
	if err != nil {
		zap.L().Warn("fallback image redirect failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return &models.ImageCandidate{URL: finalURL, Source: "fallback"}
}

// Generate asks the AI provider for a product photo.
func (s *ImageSourcer) Generate(ctx context.Context, name, description string) *models.ImageCandidate {
	prompt := fmt.Sprintf(
		"Professional food photography of %s, appetizing presentation on a clean plate, natural studio lighting, restaurant menu quality, realistic textures and colors.",
		name,
	)
	if description != "" {
		prompt += " The dish: " + description + "."
	}

	candidate, err := s.generator.GenerateImage(ctx, prompt)
	if err != nil {
		zap.L().Warn("image generation failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return candidate
}

// Store materializes a candidate (download or inline decode) and uploads it
// to the storage sink, returning the public URL.
func (s *ImageSourcer) Store(ctx context.Context, candidate *models.ImageCandidate, productName string) (string, error) {
	var (
		data        []byte
		contentType string
	)

	switch {
	case len(candidate.Inline) > 0:
		data = candidate.Inline
		contentType = candidate.MimeType
	case candidate.URL != "":
		var err error
		data, contentType, err = httpx.DownloadLimited(ctx, s.httpClient, candidate.URL, downloadTimeout, maxDownloadBytes)
		if err != nil {
			return "", fmt.Errorf("download candidate: %w", err)
		}
	default:
		return "", fmt.Errorf("empty image candidate")
	}

	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}

	publicURL, err := s.uploader.Upload(ctx, data, contentType, storage.ObjectKey(productName, contentType))
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return publicURL, nil
}
