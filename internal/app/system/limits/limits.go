// internal/app/system/limits/limits.go
package limits

// Request body size limits. These keep oversized requests from exhausting
// memory before validation runs.
const (
	// MaxImageUploadSize is the cap for avatar and cover-image uploads.
	// Enforced before any media backend is contacted.
	MaxImageUploadSize = 10 << 20 // 10 MiB

	// MaxMultipartFormSize is passed to ParseMultipartForm on admin forms
	// that carry an image: the image cap plus headroom for text fields.
	MaxMultipartFormSize = MaxImageUploadSize + (1 << 20)

	// MaxFormSize is the maximum size for plain (non-upload) form posts.
	MaxFormSize = 1 << 20 // 1 MB
)
