package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menu-import-service/models"

	"github.com/stretchr/testify/assert"
)

func newTestProvider(serverURL string) *OpenAIProvider {
	return NewOpenAIProvider("test-key", serverURL, "vision-model", "gen-model", 5*time.Second)
}

func TestCompleteSendsPromptAndImage(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"choices":[{"message":{"content":"[{\"name\":\"Tamal\"}]"}}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	image := models.UploadedImage{Data: []byte("jpeg"), MimeType: "image/jpeg"}

	text, err := p.Complete(context.Background(), "extract the menu", image)
	assert.NoError(t, err)
	assert.Equal(t, `[{"name":"Tamal"}]`, text)
	assert.Equal(t, "vision-model", captured.Model)
}

func TestCompleteNonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.Complete(context.Background(), "extract", models.UploadedImage{MimeType: "image/jpeg"})
	assert.Error(t, err)
}

func TestGenerateImageNestedImageURLShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"","images":[{"image_url":{"url":"https://img.example.com/dish.png"}}]}}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	candidate, err := p.GenerateImage(context.Background(), "food photo")
	assert.NoError(t, err)
	assert.NotNil(t, candidate)
	assert.Equal(t, "https://img.example.com/dish.png", candidate.URL)
	assert.Empty(t, candidate.Inline)
}

func TestGenerateImageEmptyAnswerIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	candidate, err := p.GenerateImage(context.Background(), "food photo")
	assert.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestNormalizeCandidateShapes(t *testing.T) {
	urlCand, err := normalizeCandidate("https://img.example.com/a.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.jpg", urlCand.URL)

	payload := base64.StdEncoding.EncodeToString([]byte("png bytes"))
	inlineCand, err := normalizeCandidate("data:image/png;base64," + payload)
	assert.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), inlineCand.Inline)
	assert.Equal(t, "image/png", inlineCand.MimeType)

	bareCand, err := normalizeCandidate(payload)
	assert.NoError(t, err)
	assert.NotNil(t, bareCand)
	assert.Equal(t, []byte("png bytes"), bareCand.Inline)

	junk, err := normalizeCandidate("not an image at all!!!")
	assert.NoError(t, err)
	assert.Nil(t, junk)
}
