package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotoKey(t *testing.T) {
	key := PhotoKey("Sunset Over The River", "IMG_0042.JPG")
	assert.True(t, strings.HasPrefix(key, "gallery/sunset-over-the-river-"))
	assert.True(t, strings.HasSuffix(key, ".JPG"))
}

func TestPhotoKeyUnique(t *testing.T) {
	a := PhotoKey("same title", "a.png")
	b := PhotoKey("same title", "a.png")
	assert.NotEqual(t, a, b)
}
