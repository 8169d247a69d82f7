package tokenstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	gh "github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/cc-courses/internal/crypto"
)

var (
	alice = Details{URL: "https://api.warpcast.com/v1/frame-notifications", Token: "token-alice"}
	bob   = Details{URL: "https://notify.example.com/v1", Token: "token-bob"}
)

// testStore exercises the Store contract against any backend.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, 1, alice))
	require.NoError(t, s.Set(ctx, 2, bob))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	// Overwrite
	updated := Details{URL: alice.URL, Token: "token-alice-2"}
	require.NoError(t, s.Set(ctx, 1, updated))
	got, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]Details{1: updated, 2: bob}, all)

	require.NoError(t, s.Delete(ctx, 1))
	_, err = s.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown fid is not an error.
	require.NoError(t, s.Delete(ctx, 999))

	all, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	for _, enc := range []*crypto.Encryptor{nil, crypto.NewEncryptor("test-passphrase")} {
		name := "plaintext"
		if enc.Enabled() {
			name = "encrypted"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "details.json")
			s, err := NewFileStore(path, enc)
			require.NoError(t, err)
			testStore(t, s)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			plaintext := strings.Contains(string(data), bob.Token)
			assert.Equal(t, !enc.Enabled(), plaintext)
		})
	}
}

func TestFileStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "details.json")
	enc := crypto.NewEncryptor("k")

	s1, err := NewFileStore(path, enc)
	require.NoError(t, err)
	require.NoError(t, s1.Set(context.Background(), 42, alice))

	s2, err := NewFileStore(path, enc)
	require.NoError(t, err)
	got, err := s2.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	// A different key cannot read the sealed values.
	s3, err := NewFileStore(path, crypto.NewEncryptor("other"))
	require.NoError(t, err)
	_, err = s3.Get(context.Background(), 42)
	assert.ErrorIs(t, err, crypto.ErrDecrypt)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notifications.db")

	s, err := NewSQLiteStore(ctx, path, crypto.NewEncryptor("test-passphrase"))
	require.NoError(t, err)
	testStore(t, s)
	require.NoError(t, s.Close())

	// Reopening skips applied migrations and keeps data.
	s, err = NewSQLiteStore(ctx, path, crypto.NewEncryptor("test-passphrase"))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, bob, got)

	var version int
	require.NoError(t, s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	var sealed string
	require.NoError(t, s.db.QueryRow("SELECT token FROM notification_details WHERE fid = 2").Scan(&sealed))
	assert.True(t, crypto.IsSealed(sealed), "token should be encrypted at rest")
}

// fakeGistAPI serves just enough of the Gists API for GistStore.
type fakeGistAPI struct {
	mu      sync.Mutex
	content map[string]string // gist ID → file content
	edits   int
}

func (f *fakeGistAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodPost && r.URL.Path == "/gists" {
		var gist gh.Gist
		if err := json.NewDecoder(r.Body).Decode(&gist); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file := gist.Files[gistFilename]
		f.content["new-gist"] = file.GetContent()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gh.Gist{ID: gh.Ptr("new-gist")})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/gists/")
	content, ok := f.content[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}

	switch r.Method {
	case http.MethodGet:
		gist := gh.Gist{ID: gh.Ptr(id), Files: map[gh.GistFilename]gh.GistFile{}}
		if content != "" {
			gist.Files[gistFilename] = gh.GistFile{Content: gh.Ptr(content)}
		}
		_ = json.NewEncoder(w).Encode(gist)
	case http.MethodPatch:
		var gist gh.Gist
		if err := json.NewDecoder(r.Body).Decode(&gist); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file := gist.Files[gistFilename]
		f.content[id] = file.GetContent()
		f.edits++
		_ = json.NewEncoder(w).Encode(gist)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestGitHubClient(t *testing.T, api http.Handler) *gh.Client {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return client
}

func TestGistStore(t *testing.T) {
	api := &fakeGistAPI{content: map[string]string{"abc123": ""}}
	s := &GistStore{
		gistID:    "abc123",
		client:    newTestGitHubClient(t, api),
		encryptor: crypto.NewEncryptor("test-passphrase"),
	}

	testStore(t, s)

	assert.NotContains(t, api.content["abc123"], bob.Token)
	// Deleting an unknown fid does not rewrite the gist.
	before := api.edits
	require.NoError(t, s.Delete(context.Background(), 12345))
	assert.Equal(t, before, api.edits)
}

func TestGistStore_Missing(t *testing.T) {
	api := &fakeGistAPI{content: map[string]string{}}
	s := &GistStore{gistID: "gone", client: newTestGitHubClient(t, api)}

	_, err := s.Get(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCreateGist(t *testing.T) {
	api := &fakeGistAPI{content: map[string]string{}}
	id, err := createGist(context.Background(), newTestGitHubClient(t, api), "cc-courses notification details")
	require.NoError(t, err)
	assert.Equal(t, "new-gist", id)
	assert.Contains(t, api.content["new-gist"], `"details"`)
}

func TestNewGistStore_Validation(t *testing.T) {
	_, err := NewGistStore(context.Background(), "", "token", nil)
	assert.Error(t, err)
	_, err = NewGistStore(context.Background(), "id", "", nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		want    interface{}
		wantErr bool
	}{
		{"", &MemoryStore{}, false},
		{"memory", &MemoryStore{}, false},
		{"file", &FileStore{}, false},
		{"SQLite", &SQLiteStore{}, false},
		{"gist", nil, true}, // missing gist ID
		{"redis", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(ctx, tt.backend, Options{DataDir: dir})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestDetails_Validate(t *testing.T) {
	assert.NoError(t, alice.Validate())
	assert.Error(t, Details{Token: "t"}.Validate())
	assert.Error(t, Details{URL: "u"}.Validate())
}
