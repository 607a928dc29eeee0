package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"menu-import-service/models"
	"menu-import-service/pkg/httpx"
)

// OpenAIProvider talks to an OpenAI-compatible chat completions endpoint.
// It covers both pipeline roles: vision extraction and image generation.
type OpenAIProvider struct {
	apiKey        string
	baseURL       string
	visionModel   string
	imageGenModel string
	timeout       time.Duration
	httpClient    *http.Client
}

func NewOpenAIProvider(apiKey, baseURL, visionModel, imageGenModel string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		visionModel:   visionModel,
		imageGenModel: imageGenModel,
		timeout:       timeout,
		httpClient:    &http.Client{},
	}
}

// ---- chat completions request/response structs ----

type chatContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponseMessage struct {
	Content string `json:"content"`
	Images  []struct {
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	} `json:"images,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatResponseMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and one base64-encoded image and returns the
// model's text answer verbatim.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, image models.UploadedImage) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", image.MimeType, base64.StdEncoding.EncodeToString(image.Data))

	reqBody := chatRequest{
		Model: p.visionModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []chatContentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &struct {
						URL string `json:"url"`
					}{URL: dataURI}},
				},
			},
		},
	}

	var resp chatResponse
	if err := p.doRequest(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage asks the generation model for a product photo. Providers
// answer in one of three shapes: a plain URL in the text content, an inline
// base64 payload, or a nested image_url object; all are normalized to a
// single ImageCandidate.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) (*models.ImageCandidate, error) {
	reqBody := chatRequest{
		Model: p.imageGenModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	var resp chatResponse
	if err := p.doRequest(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	msg := resp.Choices[0].Message
	if len(msg.Images) > 0 && msg.Images[0].ImageURL.URL != "" {
		return normalizeCandidate(msg.Images[0].ImageURL.URL)
	}
	if content := strings.TrimSpace(msg.Content); content != "" {
		return normalizeCandidate(content)
	}
	return nil, nil
}

// normalizeCandidate turns a provider answer into either a remote URL or
// decoded inline bytes.
func normalizeCandidate(raw string) (*models.ImageCandidate, error) {
	switch {
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return &models.ImageCandidate{URL: raw, Source: "ai"}, nil
	case strings.HasPrefix(raw, "data:"):
		meta, payload, ok := strings.Cut(raw, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		mime := "image/png"
		if m := strings.TrimPrefix(meta, "data:"); m != "" {
			mime = strings.TrimSuffix(m, ";base64")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode inline image: %w", err)
		}
		return &models.ImageCandidate{Inline: data, MimeType: mime, Source: "ai"}, nil
	default:
		// Some providers return bare base64 without a data URI wrapper.
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, nil
		}
		return &models.ImageCandidate{Inline: data, MimeType: "image/png", Source: "ai"}, nil
	}
}

func (p *OpenAIProvider) doRequest(ctx context.Context, path string, body interface{}, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpx.Do(ctx, p.httpClient, req, p.timeout)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(respBytes, 512))
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
