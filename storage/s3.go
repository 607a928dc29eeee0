package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader stores sourced product images and hands back a stable public URL.
type S3Uploader struct {
	client           *s3.Client
	bucket           string
	prefix           string
	endpoint         string
	cloudfrontDomain string
}

func NewS3Uploader(client *s3.Client, bucket, prefix, endpoint, cloudfrontDomain string) *S3Uploader {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Uploader{
		client:           client,
		bucket:           bucket,
		prefix:           prefix,
		endpoint:         endpoint,
		cloudfrontDomain: cloudfrontDomain,
	}
}

func (u *S3Uploader) Upload(ctx context.Context, data []byte, contentType, key string) (string, error) {
	fullKey := u.prefix + key
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", fullKey, err)
	}
	return u.publicURL(fullKey), nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.cloudfrontDomain != "" {
		return fmt.Sprintf("https://%s/%s", u.cloudfrontDomain, key)
	}
	if u.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.endpoint, "/"), u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}

// ObjectKey builds a collision-resistant key from a timestamp, a random
// suffix and the sanitized product name.
func ObjectKey(productName, contentType string) string {
	return fmt.Sprintf("%d-%s-%s%s",
		time.Now().Unix(),
		uuid.NewString()[:8],
		sanitizeName(productName),
		extensionFor(contentType),
	)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	s := b.String()
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		s = "product"
	}
	return s
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
