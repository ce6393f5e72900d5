package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileCategory is the storage bucket an upload is sorted into.
type FileCategory string

const (
	CategoryImage    FileCategory = "image"
	CategoryDocument FileCategory = "document"
	CategoryFile     FileCategory = "file"
)

// MaxUploadBytes is the default per-file limit (6 MiB).
const MaxUploadBytes int64 = 6 << 20

// allowedMediaTypes lists the only declared types accepted for storage.
var allowedMediaTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// ClassifyMediaType maps a declared media type to its storage category.
func ClassifyMediaType(mediaType string) FileCategory {
	switch normaliseMediaType(mediaType) {
	case "image/jpeg", "image/png", "image/gif":
		return CategoryImage
	case "application/pdf":
		return CategoryDocument
	default:
		return CategoryFile
	}
}

// AcceptMediaType reports whether an upload of mediaType may be stored.
func AcceptMediaType(mediaType string) bool {
	_, ok := allowedMediaTypes[normaliseMediaType(mediaType)]
	return ok
}

// normaliseMediaType drops parameters (e.g. "; charset=utf-8") and case.
func normaliseMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// maxExtLen bounds the extension kept from a client file name.
const maxExtLen = 10

// StoredName builds the on-disk name {category}_{millis}.{ext}. The
// extension is taken from originalName, lowercased, and kept only when it is
// at most maxExtLen ASCII letters or digits; otherwise the name has none.
func StoredName(category FileCategory, millis int64, originalName string) string {
	ext := storedExt(originalName)
	if ext == "" {
		return fmt.Sprintf("%s_%d", category, millis)
	}
	return fmt.Sprintf("%s_%d.%s", category, millis, ext)
}

func storedExt(originalName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(originalName)), "."))
	if len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// ServedMediaType picks the Content-Type a stored file is served with. The
// extension plays no part: sniffed is the type detected from the file's
// leading bytes, and it is trusted only when it is an accepted type that
// belongs to category. Anything else is served as an opaque download.
func ServedMediaType(category FileCategory, sniffed string) (mediaType string, inline bool) {
	sniffed = normaliseMediaType(sniffed)
	if AcceptMediaType(sniffed) && ClassifyMediaType(sniffed) == category {
		return sniffed, true
	}
	return "application/octet-stream", false
}

// UploadedFile describes a file that has been written to storage.
type UploadedFile struct {
	MediaType    string       `json:"mediaType"`
	OriginalName string       `json:"originalName"`
	Category     FileCategory `json:"category"`
	Filename     string       `json:"filename"`
	Path         string       `json:"path"`
	Size         int64        `json:"size"`
}
