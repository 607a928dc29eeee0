package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchImageReturnsLandscapeURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pexels-key", r.Header.Get("Authorization"))
		assert.Equal(t, "tamal food", r.URL.Query().Get("query"))
		w.Write([]byte(`{"photos":[{"src":{"landscape":"https://images.pexels.com/tamal-landscape.jpg"}}]}`))
	}))
	defer server.Close()

	client := NewPexelsClient("pexels-key")
	client.baseURL = server.URL

	url, err := client.SearchImage(context.Background(), "tamal food")
	assert.NoError(t, err)
	assert.Equal(t, "https://images.pexels.com/tamal-landscape.jpg", url)
}

func TestSearchImageEmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photos":[]}`))
	}))
	defer server.Close()

	client := NewPexelsClient("pexels-key")
	client.baseURL = server.URL

	url, err := client.SearchImage(context.Background(), "nothing here")
	assert.NoError(t, err)
	assert.Empty(t, url)
}

func TestSearchImageWithoutAPIKeySkips(t *testing.T) {
	client := NewPexelsClient("")

	url, err := client.SearchImage(context.Background(), "tamal")
	assert.NoError(t, err)
	assert.Empty(t, url)
}

func TestSearchImageAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewPexelsClient("bad-key")
	client.baseURL = server.URL

	_, err := client.SearchImage(context.Background(), "tamal")
	assert.Error(t, err)
}
