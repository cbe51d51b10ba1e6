package utils

import (
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// PhotoKey builds a stable, unique object key for an uploaded gallery
// image from its title and original extension.
func PhotoKey(title string, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("gallery/%s-%s%s", slug.Make(title), uuid.NewString()[:8], ext)
}
