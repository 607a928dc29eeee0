package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeySanitizesName(t *testing.T) {
	key := ObjectKey("Pupusa de Queso!! (con curtido)", "image/jpeg")

	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Contains(t, key, "pupusa-de-queso")
	assert.NotContains(t, key, "!")
	assert.NotContains(t, key, "(")
}

func TestObjectKeyEmptyNameGetsPlaceholder(t *testing.T) {
	key := ObjectKey("¡¡¡", "image/png")
	assert.Contains(t, key, "product")
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestObjectKeysAreCollisionResistant(t *testing.T) {
	a := ObjectKey("Tamal", "image/jpeg")
	b := ObjectKey("Tamal", "image/jpeg")
	assert.NotEqual(t, a, b)
}

func TestExtensionDefaultsToJPEG(t *testing.T) {
	assert.True(t, strings.HasSuffix(ObjectKey("x", "application/octet-stream"), ".jpg"))
	assert.True(t, strings.HasSuffix(ObjectKey("x", "image/webp"), ".webp"))
}
