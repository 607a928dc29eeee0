// Package httpx bounds every outbound HTTP call the import pipeline makes
// with an explicit deadline, so a slow provider can never stall a batch.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Do executes req with a hard deadline layered on top of ctx.
func Do(ctx context.Context, client *http.Client, req *http.Request, timeout time.Duration) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	// Cancel when the body is closed, not before it is read.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// DownloadLimited fetches url, rejecting responses larger than maxBytes.
// An oversized body is never partially buffered: the declared Content-Length
// is checked first, and reads are capped as a second line of defense.
func DownloadLimited(ctx context.Context, client *http.Client, url string, timeout time.Duration, maxBytes int64) ([]byte, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := Do(ctx, client, req, timeout)
	if err != nil {
		return nil, "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.ContentLength > maxBytes {
		return nil, "", fmt.Errorf("content length %d exceeds limit %d", resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("body exceeds limit %d", maxBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// ResolveFinalURL issues a GET and returns the URL after all redirects.
// Used for keyword-based image redirect services whose value is the
// destination, not the body.
func ResolveFinalURL(ctx context.Context, client *http.Client, url string, timeout time.Duration) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := Do(ctx, client, req, timeout)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}
