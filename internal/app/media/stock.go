// internal/app/media/stock.go
package media

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"go.uber.org/zap"
)

// stockPhotos is the fixed pool of Unsplash portrait photo ids used when no
// upload backend is configured. The pool is stable so a given ref always
// resolves to the same photo.
var stockPhotos = []string{
	"photo-1507003211169-0a1dd7228f2d",
	"photo-1494790108377-be9c29b29330",
	"photo-1472099645785-5658abf4ff4e",
	"photo-1438761681033-6461ffad8d80",
	"photo-1500648767791-00dcc994a43e",
	"photo-1534528741775-53994a69daeb",
	"photo-1506794778202-cad84cf45f1d",
	"photo-1544005313-94ddf0286df2",
}

// stockByRole maps common roster roles onto pool entries so a roster page
// looks plausibly varied.
var stockByRole = map[string]string{
	"professor":           "photo-1472099645785-5658abf4ff4e",
	"associate professor": "photo-1506794778202-cad84cf45f1d",
	"postdoc":             "photo-1494790108377-be9c29b29330",
	"phd student":         "photo-1507003211169-0a1dd7228f2d",
	"master student":      "photo-1534528741775-53994a69daeb",
}

// Stock is the read-only fallback backend. Uploads are refused; Resolve
// serves deterministic stock portraits; Remove is a no-op.
type Stock struct {
	log     *zap.Logger
	urlBase string // overridable in tests
}

// NewStock returns the stock-photo adapter.
func NewStock(logger *zap.Logger) *Stock {
	return &Stock{log: logger, urlBase: "https://images.unsplash.com"}
}

func (s *Stock) Name() string { return "stock" }

// Upload always fails: there is nowhere to put the bytes. Validation still
// runs first so callers get the more specific error for bad input.
func (s *Stock) Upload(ctx context.Context, in UploadInput) (ImageRef, error) {
	if err := ValidateUpload(in); err != nil {
		return ImageRef{}, err
	}
	return ImageRef{}, &UploadError{
		Backend: s.Name(),
		Op:      "upload",
		Err:     fmt.Errorf("stock backend is read-only; configure github or cloudinary to upload"),
	}
}

// Resolve maps the ref onto the photo pool. A zero ref gets the first pool
// entry; a ref that names a role uses the role mapping; anything else is
// hashed into the pool. The same ref always yields the same URL.
func (s *Stock) Resolve(ref ImageRef, v Variant) string {
	photo := stockPhotos[0]
	switch {
	case ref.IsZero():
		// keep default
	case ref.URL != "" && ref.ID == "":
		return ref.URL
	default:
		key := strings.ToLower(strings.TrimSpace(ref.ID))
		if p, ok := stockByRole[key]; ok {
			photo = p
		} else if strings.HasPrefix(key, "photo-") {
			photo = key
		} else {
			h := fnv.New32a()
			h.Write([]byte(key))
			photo = stockPhotos[h.Sum32()%uint32(len(stockPhotos))]
		}
	}

	w, h := variantDims(v)
	if w == 0 {
		return fmt.Sprintf("%s/%s", s.urlBase, photo)
	}
	crop := "crop"
	if v == Avatar || v == AvatarLarge {
		return fmt.Sprintf("%s/%s?w=%d&h=%d&fit=crop&crop=face", s.urlBase, photo, w, h)
	}
	return fmt.Sprintf("%s/%s?w=%d&h=%d&fit=%s", s.urlBase, photo, w, h, crop)
}

// Remove is a no-op; stock photos are shared and never deleted.
func (s *Stock) Remove(ctx context.Context, ref ImageRef) error {
	return nil
}
