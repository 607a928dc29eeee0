package models

// Event types emitted while an import is running. `start` is always first
// and exactly one of `complete`/`error` is always last.
const (
	EventStart           = "start"
	EventAnalyzing       = "analyzing"
	EventExtracted       = "extracted"
	EventSearchingImage  = "searching_image"
	EventImageFound      = "image_found"
	EventImageNotFound   = "image_not_found"
	EventGeneratingImage = "generating_image"
	EventImageGenerated  = "image_generated"
	EventProductSaved    = "product_saved"
	EventVariantsCreated = "variants_created"
	EventComplete        = "complete"
	EventError           = "error"
)

// ProgressEvent is the only artifact that crosses the wire while an import
// runs. Each event is one SSE frame: data: <JSON>\n\n.
type ProgressEvent struct {
	Type         string        `json:"type"`
	Message      string        `json:"message,omitempty"`
	Details      string        `json:"details,omitempty"`
	Count        int           `json:"count,omitempty"`
	ProductName  string        `json:"productName,omitempty"`
	Source       string        `json:"source,omitempty"`
	Current      int           `json:"current,omitempty"`
	Total        int           `json:"total,omitempty"`
	Action       string        `json:"action,omitempty"` // "created" | "updated"
	// Pointer so a variants_created frame still carries variantCount when
	// every row failed (count 0).
	VariantCount *int          `json:"variantCount,omitempty"`
	Result       *ImportResult `json:"result,omitempty"`
}

// ImportResult is the terminal artifact of one pipeline run.
type ImportResult struct {
	ProductsAdded   int      `json:"productsAdded"`
	ProductsUpdated int      `json:"productsUpdated"`
	TotalExtracted  int      `json:"totalExtracted"`
	Errors          []string `json:"errors"`
}
