// internal/app/media/github.go
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GitHubConfig configures the source-control-as-CDN backend. Images are
// committed into a repository via the contents API and served from the raw
// content host.
type GitHubConfig struct {
	Owner    string
	Repo     string
	Branch   string // default "main"
	Token    string // personal access token with repo scope
	BasePath string // directory inside the repo, e.g. "images"
}

// GitHub stores images as repository files. The ref ID is the in-repo path.
type GitHub struct {
	cfg     GitHubConfig
	client  *http.Client
	log     *zap.Logger
	apiBase string // overridable in tests
	rawBase string
}

// NewGitHub validates the config and returns the adapter.
func NewGitHub(cfg GitHubConfig, client *http.Client, logger *zap.Logger) (*GitHub, error) {
	if cfg.Owner == "" || cfg.Repo == "" || cfg.Token == "" {
		return nil, fmt.Errorf("github media backend needs owner, repo, and token")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	cfg.BasePath = strings.Trim(cfg.BasePath, "/")
	return &GitHub{
		cfg:     cfg,
		client:  client,
		log:     logger,
		apiBase: "https://api.github.com",
		rawBase: "https://raw.githubusercontent.com",
	}, nil
}

func (g *GitHub) Name() string { return "github" }

// Upload commits the image. If a file already exists at the generated path
// (never in practice, the name embeds a random id) its blob SHA is sent so
// the commit updates instead of conflicting.
func (g *GitHub) Upload(ctx context.Context, in UploadInput) (ImageRef, error) {
	if err := ValidateUpload(in); err != nil {
		return ImageRef{}, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, MaxUploadSize+1))
	if err != nil {
		return ImageRef{}, &UploadError{Backend: g.Name(), Op: "read", Err: err}
	}
	if int64(len(data)) > MaxUploadSize {
		return ImageRef{}, &ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("Image is too large; the limit is %d MB.", MaxUploadSize>>20),
		}
	}

	path := g.objectPath(in)

	sha, err := g.fetchSHA(ctx, path)
	if err != nil {
		return ImageRef{}, err
	}

	payload := map[string]any{
		"message": "Upload " + path,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  g.cfg.Branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return ImageRef{}, &UploadError{Backend: g.Name(), Op: "upload", Err: err}
	}
	g.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return ImageRef{}, &UploadError{Backend: g.Name(), Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return ImageRef{}, &UploadError{
			Backend: g.Name(),
			Op:      "upload",
			Err:     fmt.Errorf("contents API returned %s: %s", resp.Status, readSnippet(resp.Body)),
		}
	}

	ref := ImageRef{ID: path, URL: g.rawURL(path)}
	g.log.Info("image committed",
		zap.String("backend", g.Name()),
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return ref, nil
}

// Resolve returns the raw-content URL. The raw host serves original bytes
// only, so the variant is ignored.
func (g *GitHub) Resolve(ref ImageRef, v Variant) string {
	if ref.IsZero() {
		return Placeholder(v)
	}
	if ref.ID != "" {
		return g.rawURL(ref.ID)
	}
	return ref.URL
}

// Remove deletes the file. A missing file is a no-op success.
func (g *GitHub) Remove(ctx context.Context, ref ImageRef) error {
	if ref.IsZero() || ref.ID == "" {
		return nil
	}

	sha, err := g.fetchSHA(ctx, ref.ID)
	if err != nil {
		return err
	}
	if sha == "" {
		return nil // already gone
	}

	body, _ := json.Marshal(map[string]any{
		"message": "Remove " + ref.ID,
		"sha":     sha,
		"branch":  g.cfg.Branch,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.contentsURL(ref.ID), bytes.NewReader(body))
	if err != nil {
		return &UploadError{Backend: g.Name(), Op: "remove", Err: err}
	}
	g.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &UploadError{Backend: g.Name(), Op: "remove", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return &UploadError{
			Backend: g.Name(),
			Op:      "remove",
			Err:     fmt.Errorf("contents API returned %s: %s", resp.Status, readSnippet(resp.Body)),
		}
	}
	return nil
}

// fetchSHA returns the blob SHA of an existing file, or "" when the file
// does not exist.
func (g *GitHub) fetchSHA(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.contentsURL(path)+"?ref="+g.cfg.Branch, nil)
	if err != nil {
		return "", &UploadError{Backend: g.Name(), Op: "stat", Err: err}
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &UploadError{Backend: g.Name(), Op: "stat", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UploadError{
			Backend: g.Name(),
			Op:      "stat",
			Err:     fmt.Errorf("contents API returned %s", resp.Status),
		}
	}

	var out struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", &UploadError{Backend: g.Name(), Op: "stat", Err: err}
	}
	return out.SHA, nil
}

func (g *GitHub) objectPath(in UploadInput) string {
	now := time.Now().UTC()
	name := uuid.New().String()[:8] + extFor(in.ContentType, in.Filename)
	parts := []string{}
	if g.cfg.BasePath != "" {
		parts = append(parts, g.cfg.BasePath)
	}
	folder := strings.Trim(in.Folder, "/")
	if folder != "" {
		parts = append(parts, folder)
	}
	parts = append(parts, now.Format("2006"), now.Format("01"), name)
	return strings.Join(parts, "/")
}

func (g *GitHub) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.apiBase, g.cfg.Owner, g.cfg.Repo, path)
}

func (g *GitHub) rawURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", g.rawBase, g.cfg.Owner, g.cfg.Repo, g.cfg.Branch, path)
}

func (g *GitHub) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

// readSnippet pulls a short error body for log/diagnostic messages.
func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
