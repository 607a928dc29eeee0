package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"menu-import-service/middleware"
	"menu-import-service/models"
	"menu-import-service/services"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploads beyond this are rejected up front; menu photos are small.
const maxUploadBytes = 20 << 20

// ImportRunner is the pipeline surface the controller drives.
type ImportRunner interface {
	Run(ctx context.Context, ownerID uuid.UUID, images []models.UploadedImage, opts services.ImportOptions) <-chan models.ProgressEvent
}

type ImportController struct {
	runner ImportRunner
	cache  *CacheManager
}

func NewImportController(runner ImportRunner, cache *CacheManager) *ImportController {
	return &ImportController{runner: runner, cache: cache}
}

// ImportMenu accepts multipart menu photos and streams pipeline progress
// back as SSE frames. The first frame is always `start`; exactly one of
// `complete`/`error` closes the stream.
func (ctl *ImportController) ImportMenu(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	opts := services.ImportOptions{
		SearchWebImages:  c.PostForm("searchWebImages") == "true",
		GenerateAIImages: c.PostForm("generateAIImages") == "true",
	}

	images, err := readUploadedImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	ch := ctl.runner.Run(ctx, ownerID, images, opts)

	for {
		select {
		case <-ctx.Done():
			// Client gone; the pipeline sees the same cancellation.
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				zap.L().Error("failed to encode progress event", zap.Error(err))
				continue
			}
			if err := sse.Encode(c.Writer, sse.Event{Data: string(payload)}); err != nil {
				return
			}
			c.Writer.Flush()

			if ev.Type == models.EventComplete && ctl.cache != nil {
				ctl.cache.BumpVersion(ctx, ownerID)
			}
		}
	}
}

func readUploadedImages(c *gin.Context) ([]models.UploadedImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var images []models.UploadedImage
	for _, header := range form.File["files"] {
		file, err := header.Open()
		if err != nil {
			zap.L().Warn("could not open uploaded file", zap.String("file", header.Filename), zap.Error(err))
			continue
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if err != nil {
			zap.L().Warn("could not read uploaded file", zap.String("file", header.Filename), zap.Error(err))
			continue
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}

		images = append(images, models.UploadedImage{
			Data:     data,
			MimeType: mimeType,
			Filename: header.Filename,
		})
	}
	return images, nil
}
