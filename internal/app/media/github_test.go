package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGitHub(GitHubConfig{
		Owner:    "lab",
		Repo:     "site-media",
		Branch:   "main",
		Token:    "ghp_test",
		BasePath: "images",
	}, srv.Client(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	g.apiBase = srv.URL
	return g
}

func TestGitHubUploadNewFile(t *testing.T) {
	var putBody struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}
	var gotAuth string

	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			// stat: file does not exist yet
			http.NotFound(w, r)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Fatalf("decode PUT body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"content": map[string]string{"sha": "newsha"}})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	ref, err := g.Upload(context.Background(), UploadInput{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
		Folder:      "avatars",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if gotAuth != "token ghp_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if putBody.Branch != "main" {
		t.Errorf("branch = %q", putBody.Branch)
	}
	if putBody.SHA != "" {
		t.Errorf("new file should carry no sha, got %q", putBody.SHA)
	}
	decoded, err := base64.StdEncoding.DecodeString(putBody.Content)
	if err != nil || string(decoded) != "\x89PNG" {
		t.Errorf("content round-trip failed: %q %v", decoded, err)
	}

	if !strings.HasPrefix(ref.ID, "images/avatars/") || !strings.HasSuffix(ref.ID, ".png") {
		t.Errorf("ref.ID = %q", ref.ID)
	}
	wantPrefix := "https://raw.githubusercontent.com/lab/site-media/main/images/avatars/"
	if !strings.HasPrefix(ref.URL, wantPrefix) {
		t.Errorf("ref.URL = %q, want prefix %q", ref.URL, wantPrefix)
	}
}

func TestGitHubUploadExistingFileSendsSHA(t *testing.T) {
	var gotSHA string
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "oldsha"})
		case http.MethodPut:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotSHA, _ = body["sha"].(string)
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	}))

	if _, err := g.Upload(context.Background(), pngUpload(8)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotSHA != "oldsha" {
		t.Errorf("sha = %q, want oldsha", gotSHA)
	}
}

func TestGitHubResolveIgnoresVariant(t *testing.T) {
	g, err := NewGitHub(GitHubConfig{Owner: "lab", Repo: "m", Token: "t"},
		http.DefaultClient, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	ref := ImageRef{ID: "images/avatars/abc.png"}
	want := "https://raw.githubusercontent.com/lab/m/main/images/avatars/abc.png"

	for _, v := range []Variant{Original, Avatar, Banner} {
		if got := g.Resolve(ref, v); got != want {
			t.Errorf("Resolve(%s) = %q, want %q", v, got, want)
		}
	}
}

func TestGitHubRemoveMissingFileIsNoop(t *testing.T) {
	deletes := 0
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r) // stat: already gone
		case http.MethodDelete:
			deletes++
		}
	}))

	if err := g.Remove(context.Background(), ImageRef{ID: "images/x.png"}); err != nil {
		t.Fatalf("Remove of missing file should be a no-op, got %v", err)
	}
	if deletes != 0 {
		t.Errorf("DELETE issued for a missing file")
	}
}

func TestGitHubRemoveExistingFile(t *testing.T) {
	var delBody map[string]any
	g := newTestGitHub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "blobsha"})
		case http.MethodDelete:
			_ = json.NewDecoder(r.Body).Decode(&delBody)
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	}))

	if err := g.Remove(context.Background(), ImageRef{ID: "images/x.png"}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if sha, _ := delBody["sha"].(string); sha != "blobsha" {
		t.Errorf("delete sha = %q", sha)
	}
}
