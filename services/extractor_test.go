package services

import (
	"context"
	"errors"
	"testing"

	"menu-import-service/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractProductsParsesPlainArray(t *testing.T) {
	vision := &fakeVision{responses: []string{
		`[{"name":"Pupusa de Queso","description":"","price":2.5,"category":"Platos","variants":[]}]`,
	}}
	extractor := NewExtractor(vision)

	drafts := extractor.ExtractProducts(context.Background(), models.UploadedImage{MimeType: "image/jpeg"})
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Pupusa de Queso", drafts[0].Name)
	assert.Equal(t, 2.5, drafts[0].Price)
}

func TestExtractProductsStripsCodeFences(t *testing.T) {
	vision := &fakeVision{responses: []string{
		"```json\n[{\"name\":\"Horchata\",\"price\":1.5,\"category\":\"Bebidas\",\"variants\":[]}]\n```",
	}}
	extractor := NewExtractor(vision)

	drafts := extractor.ExtractProducts(context.Background(), models.UploadedImage{})
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Horchata", drafts[0].Name)
}

func TestExtractProductsSalvagesArrayFromProse(t *testing.T) {
	vision := &fakeVision{responses: []string{
		`Here are the products I found: [{"name":"Yuca Frita","price":3,"category":"Antojitos","variants":[]}] Let me know if you need more.`,
	}}
	extractor := NewExtractor(vision)

	drafts := extractor.ExtractProducts(context.Background(), models.UploadedImage{})
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Yuca Frita", drafts[0].Name)
}

func TestExtractProductsProviderErrorYieldsEmpty(t *testing.T) {
	vision := &fakeVision{errs: []error{errors.New("API error (status 500)")}}
	extractor := NewExtractor(vision)

	drafts := extractor.ExtractProducts(context.Background(), models.UploadedImage{})
	assert.Empty(t, drafts)
}

func TestExtractProductsNonArrayYieldsEmpty(t *testing.T) {
	vision := &fakeVision{responses: []string{`{"name":"not an array"}`}}
	extractor := NewExtractor(vision)

	drafts := extractor.ExtractProducts(context.Background(), models.UploadedImage{})
	assert.Empty(t, drafts)
}

func TestExtractProductsDropsMalformedDrafts(t *testing.T) {
	vision := &fakeVision{responses: []string{
		`[{"name":"","price":2,"category":"Platos"},{"name":"Ok","price":-1,"category":"Platos"},{"name":"Tamal","price":2,"category":"Platos"}]`,
	}}
	extractor := NewExtractor(vision)

	drafts := extractor.ExtractProducts(context.Background(), models.UploadedImage{})
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Tamal", drafts[0].Name)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `[1]`, stripCodeFences("```json\n[1]\n```"))
	assert.Equal(t, `[1]`, stripCodeFences("```\n[1]\n```"))
	assert.Equal(t, `[1]`, stripCodeFences("[1]"))
}
