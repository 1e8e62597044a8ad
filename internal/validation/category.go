package validation

import (
	"path/filepath"
	"strings"
)

// Category buckets files by how often their contents tend to change, which
// drives the base TTL for cached validation results.
type Category string

const (
	CategoryMedia     Category = "media"
	CategoryDocument  Category = "document"
	CategoryTemporary Category = "temporary"
	CategoryDefault   Category = "default"
)

var categoryByExtension = map[string]Category{
	// Media: finished artifacts, effectively immutable once archived.
	".jpg":  CategoryMedia,
	".jpeg": CategoryMedia,
	".png":  CategoryMedia,
	".gif":  CategoryMedia,
	".tiff": CategoryMedia,
	".bmp":  CategoryMedia,
	".webp": CategoryMedia,
	".raw":  CategoryMedia,
	".cr2":  CategoryMedia,
	".nef":  CategoryMedia,
	".mp3":  CategoryMedia,
	".flac": CategoryMedia,
	".wav":  CategoryMedia,
	".m4a":  CategoryMedia,
	".mp4":  CategoryMedia,
	".mkv":  CategoryMedia,
	".avi":  CategoryMedia,
	".mov":  CategoryMedia,
	".webm": CategoryMedia,

	// Documents: edited in place from time to time.
	".pdf":  CategoryDocument,
	".doc":  CategoryDocument,
	".docx": CategoryDocument,
	".xls":  CategoryDocument,
	".xlsx": CategoryDocument,
	".ppt":  CategoryDocument,
	".pptx": CategoryDocument,
	".odt":  CategoryDocument,
	".txt":  CategoryDocument,
	".md":   CategoryDocument,
	".rtf":  CategoryDocument,
	".epub": CategoryDocument,

	// Temporary: churn constantly, trust almost nothing.
	".tmp":        CategoryTemporary,
	".temp":       CategoryTemporary,
	".bak":        CategoryTemporary,
	".part":       CategoryTemporary,
	".partial":    CategoryTemporary,
	".crdownload": CategoryTemporary,
	".swp":        CategoryTemporary,
}

// Classify maps a path to its file category by extension alone. Unknown
// extensions fall through to CategoryDefault.
func Classify(path string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	if category, ok := categoryByExtension[ext]; ok {
		return category
	}
	return CategoryDefault
}
