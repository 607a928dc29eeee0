package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"menu-import-service/pkg/httpx"
)

const pexelsBaseURL = "https://api.pexels.com/v1"

// PexelsClient implements ImageSearcher against the Pexels photo API.
type PexelsClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:     apiKey,
		baseURL:    pexelsBaseURL,
		timeout:    15 * time.Second,
		httpClient: &http.Client{},
	}
}

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Landscape string `json:"landscape"`
		} `json:"src"`
	} `json:"photos"`
}

// SearchImage returns the landscape-size URL of the first hit, or "" when
// the API is not configured or has nothing for the query.
func (p *PexelsClient) SearchImage(ctx context.Context, query string) (string, error) {
	if p.apiKey == "" {
		return "", nil
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=3", p.baseURL, url.QueryEscape(query))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := httpx.Do(ctx, p.httpClient, req, p.timeout)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pexels API error (status %d)", resp.StatusCode)
	}

	var result pexelsSearchResponse
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Photos) == 0 {
		return "", nil
	}
	return result.Photos[0].Src.Landscape, nil
}
