// internal/app/media/cloudinary.go
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudinaryConfig configures the managed media pipeline. Uploads use an
// unsigned preset; Remove additionally needs the API key pair because the
// destroy endpoint is signed.
type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	Folder       string // default folder, e.g. "labsite"
	APIKey       string // optional, required only for Remove
	APISecret    string
}

// cloudinaryTransforms maps display variants to URL transformation strings.
var cloudinaryTransforms = map[Variant]string{
	Avatar:      "c_fill,g_face,h_150,w_150,q_auto,f_auto",
	AvatarLarge: "c_fill,g_face,h_300,w_300,q_auto,f_auto",
	Thumbnail:   "c_fill,h_200,w_200,q_auto,f_auto",
	Banner:      "c_fill,h_400,w_1200,q_auto,f_auto",
	Optimized:   "q_auto,f_auto",
}

// Cloudinary stores images through the upload API. The ref ID is the
// Cloudinary public id, which transformation URLs are built from.
type Cloudinary struct {
	cfg     CloudinaryConfig
	client  *http.Client
	log     *zap.Logger
	apiBase string // overridable in tests
	resBase string
}

// NewCloudinary validates the config and returns the adapter.
func NewCloudinary(cfg CloudinaryConfig, client *http.Client, logger *zap.Logger) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, fmt.Errorf("cloudinary media backend needs cloud name and upload preset")
	}
	return &Cloudinary{
		cfg:     cfg,
		client:  client,
		log:     logger,
		apiBase: "https://api.cloudinary.com/v1_1",
		resBase: "https://res.cloudinary.com",
	}, nil
}

func (c *Cloudinary) Name() string { return "cloudinary" }

// Upload posts the image as multipart form data with the unsigned preset.
func (c *Cloudinary) Upload(ctx context.Context, in UploadInput) (ImageRef, error) {
	if err := ValidateUpload(in); err != nil {
		return ImageRef{}, err
	}

	folder := c.cfg.Folder
	if in.Folder != "" {
		folder = strings.Trim(c.cfg.Folder+"/"+in.Folder, "/")
	}
	publicID := uuid.New().String()[:8]

	body, contentType, err := c.multipartBody(in, folder, publicID)
	if err != nil {
		return ImageRef{}, &UploadError{Backend: c.Name(), Op: "upload", Err: err}
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.apiBase, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return ImageRef{}, &UploadError{Backend: c.Name(), Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return ImageRef{}, &UploadError{Backend: c.Name(), Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ImageRef{}, &UploadError{
			Backend: c.Name(),
			Op:      "upload",
			Err:     fmt.Errorf("upload API returned %s: %s", resp.Status, readSnippet(resp.Body)),
		}
	}

	var out struct {
		PublicID  string `json:"public_id"`
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return ImageRef{}, &UploadError{Backend: c.Name(), Op: "upload", Err: err}
	}
	if out.PublicID == "" {
		return ImageRef{}, &UploadError{
			Backend: c.Name(),
			Op:      "upload",
			Err:     fmt.Errorf("upload API response had no public_id"),
		}
	}

	c.log.Info("image uploaded",
		zap.String("backend", c.Name()),
		zap.String("public_id", out.PublicID))
	return ImageRef{ID: out.PublicID, URL: out.SecureURL}, nil
}

// Resolve builds a transformation URL for the variant.
func (c *Cloudinary) Resolve(ref ImageRef, v Variant) string {
	if ref.IsZero() {
		return Placeholder(v)
	}
	if ref.ID == "" {
		return ref.URL
	}
	transform := cloudinaryTransforms[v]
	if transform == "" {
		return fmt.Sprintf("%s/%s/image/upload/%s", c.resBase, c.cfg.CloudName, ref.ID)
	}
	return fmt.Sprintf("%s/%s/image/upload/%s/%s", c.resBase, c.cfg.CloudName, transform, ref.ID)
}

// Remove calls the signed destroy endpoint. Without API credentials the
// asset is left behind and a warning is logged; the caller's delete still
// succeeds. Cloudinary reports "not found" with HTTP 200, which counts as
// success here.
func (c *Cloudinary) Remove(ctx context.Context, ref ImageRef) error {
	if ref.IsZero() || ref.ID == "" {
		return nil
	}
	if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		c.log.Warn("cloudinary remove skipped; no API credentials",
			zap.String("public_id", ref.ID))
		return nil
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	signature := c.sign(map[string]string{
		"public_id": ref.ID,
		"timestamp": ts,
	})

	form := url.Values{}
	form.Set("public_id", ref.ID)
	form.Set("timestamp", ts)
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.apiBase, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return &UploadError{Backend: c.Name(), Op: "remove", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return &UploadError{Backend: c.Name(), Op: "remove", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UploadError{
			Backend: c.Name(),
			Op:      "remove",
			Err:     fmt.Errorf("destroy API returned %s: %s", resp.Status, readSnippet(resp.Body)),
		}
	}
	return nil
}

// sign produces the SHA-1 request signature over the sorted parameters.
func (c *Cloudinary) sign(params map[string]string) string {
	// destroy only signs public_id and timestamp; keep key order fixed.
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s%s",
		params["public_id"], params["timestamp"], c.cfg.APISecret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}

func (c *Cloudinary) multipartBody(in UploadInput, folder, publicID string) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() { pw.CloseWithError(err) }()

		if err = mw.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
			return
		}
		if folder != "" {
			if err = mw.WriteField("folder", folder); err != nil {
				return
			}
		}
		if err = mw.WriteField("public_id", publicID); err != nil {
			return
		}
		if err = mw.WriteField("tags", "labsite"); err != nil {
			return
		}

		var part io.Writer
		part, err = mw.CreateFormFile("file", in.Filename)
		if err != nil {
			return
		}
		if _, err = io.Copy(part, io.LimitReader(in.Body, MaxUploadSize)); err != nil {
			return
		}
		err = mw.Close()
	}()

	return pr, mw.FormDataContentType(), nil
}
