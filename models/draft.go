package models

// UploadedImage is one menu photo as received on the import endpoint.
// It lives only for the duration of the request.
type UploadedImage struct {
	Data     []byte
	MimeType string
	Filename string
}

// ProductDraft is an unpersisted product candidate extracted from a menu
// photo. It is consumed by reconciliation and never stored as-is.
type ProductDraft struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Price       float64        `json:"price" validate:"gte=0"`
	Category    string         `json:"category"`
	Variants    []VariantDraft `json:"variants"`
}

type VariantDraft struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	PriceModifier   float64 `json:"priceModifier"`
	IsAbsolutePrice bool    `json:"isAbsolutePrice"`
	IsDefault       bool    `json:"isDefault"`
}

// ImageCandidate is a sourced product image before upload: either a remote
// URL or inline bytes, never both.
type ImageCandidate struct {
	URL      string
	Inline   []byte
	MimeType string
	Source   string // "web", "fallback" or "ai"
}
