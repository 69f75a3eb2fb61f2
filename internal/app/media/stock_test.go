package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestStockUploadUnsupported(t *testing.T) {
	s := NewStock(zap.NewNop())
	_, err := s.Upload(context.Background(), pngUpload(64))
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("want *UploadError, got %v", err)
	}
	if ue.Backend != "stock" {
		t.Errorf("Backend = %q", ue.Backend)
	}
}

func TestStockUploadStillValidatesFirst(t *testing.T) {
	s := NewStock(zap.NewNop())
	_, err := s.Upload(context.Background(), UploadInput{
		ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x"),
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("bad input should surface the validation error, got %v", err)
	}
}

func TestStockResolveDeterministic(t *testing.T) {
	s := NewStock(zap.NewNop())

	refs := []ImageRef{
		{},
		{ID: "phd student"},
		{ID: "some-member-slug"},
		{ID: "photo-1507003211169-0a1dd7228f2d"},
	}
	for _, ref := range refs {
		a := s.Resolve(ref, Avatar)
		b := s.Resolve(ref, Avatar)
		if a != b {
			t.Errorf("Resolve(%v) not deterministic: %q vs %q", ref, a, b)
		}
	}
}

func TestStockResolveAvatarShape(t *testing.T) {
	s := NewStock(zap.NewNop())
	url := s.Resolve(ImageRef{ID: "professor"}, Avatar)
	if !strings.HasPrefix(url, "https://images.unsplash.com/photo-") {
		t.Errorf("url = %q", url)
	}
	if !strings.Contains(url, "w=150") || !strings.Contains(url, "h=150") || !strings.Contains(url, "crop=face") {
		t.Errorf("avatar dims missing: %q", url)
	}
}

func TestStockRoleMapping(t *testing.T) {
	s := NewStock(zap.NewNop())
	prof := s.Resolve(ImageRef{ID: "professor"}, Avatar)
	phd := s.Resolve(ImageRef{ID: "phd student"}, Avatar)
	if prof == phd {
		t.Error("different roles should map to different stock photos")
	}
}

func TestStockResolveHashStaysInPool(t *testing.T) {
	s := NewStock(zap.NewNop())
	for _, id := range []string{"alice", "bob", "unknown role", "x", strings.Repeat("z", 200)} {
		url := s.Resolve(ImageRef{ID: id}, Original)
		inPool := false
		for _, p := range stockPhotos {
			if strings.Contains(url, p) {
				inPool = true
				break
			}
		}
		if !inPool {
			t.Errorf("Resolve(%q) = %q, not a pool photo", id, url)
		}
	}
}

func TestStockRemoveNoop(t *testing.T) {
	s := NewStock(zap.NewNop())
	if err := s.Remove(context.Background(), ImageRef{ID: "anything"}); err != nil {
		t.Fatalf("Remove = %v, want nil", err)
	}
}
