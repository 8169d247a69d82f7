package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/pfrederiksen/cc-courses/internal/crypto"
)

const (
	gistFilename = "notification_details.json"
	gistTimeout  = 15 * time.Second
)

// GistStore keeps details in a file of a private GitHub Gist.
type GistStore struct {
	mu        sync.Mutex
	gistID    string
	client    *gh.Client
	encryptor *crypto.Encryptor
}

var _ Store = (*GistStore)(nil)

// NewGistStore creates a Gist-backed store authenticated with githubToken.
func NewGistStore(ctx context.Context, gistID, githubToken string, enc *crypto.Encryptor) (*GistStore, error) {
	if gistID == "" {
		return nil, errors.New("gist ID is required")
	}
	if githubToken == "" {
		return nil, errors.New("GitHub token is required")
	}
	return &GistStore{
		gistID:    gistID,
		client:    newGitHubClient(ctx, githubToken),
		encryptor: enc,
	}, nil
}

func newGitHubClient(ctx context.Context, token string) *gh.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = gistTimeout
	return gh.NewClient(tc)
}

// CreateGist creates an empty private Gist for notification details and
// returns its ID.
func CreateGist(ctx context.Context, githubToken, description string) (string, error) {
	if githubToken == "" {
		return "", errors.New("GitHub token is required")
	}
	return createGist(ctx, newGitHubClient(ctx, githubToken), description)
}

func createGist(ctx context.Context, client *gh.Client, description string) (string, error) {
	data, err := newDocument().encode()
	if err != nil {
		return "", err
	}

	gist, _, err := client.Gists.Create(ctx, &gh.Gist{
		Description: gh.Ptr(description),
		Public:      gh.Ptr(false),
		Files: map[gh.GistFilename]gh.GistFile{
			gistFilename: {Content: gh.Ptr(string(data))},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating gist: %w", err)
	}
	return gist.GetID(), nil
}

func (g *GistStore) load(ctx context.Context) (*document, error) {
	gist, resp, err := g.client.Gists.Get(ctx, g.gistID)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("gist %s not found", g.gistID)
		}
		return nil, fmt.Errorf("fetching gist: %w", err)
	}

	file, ok := gist.Files[gistFilename]
	if !ok {
		// File doesn't exist yet
		return newDocument(), nil
	}
	return parseDocument([]byte(file.GetContent()))
}

func (g *GistStore) save(ctx context.Context, doc *document) error {
	data, err := doc.encode()
	if err != nil {
		return err
	}

	_, _, err = g.client.Gists.Edit(ctx, g.gistID, &gh.Gist{
		Files: map[gh.GistFilename]gh.GistFile{
			gistFilename: {Content: gh.Ptr(string(data))},
		},
	})
	if err != nil {
		return fmt.Errorf("updating gist: %w", err)
	}
	return nil
}

func (g *GistStore) Get(ctx context.Context, fid int64) (Details, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load(ctx)
	if err != nil {
		return Details{}, err
	}
	return doc.get(g.encryptor, fid)
}

func (g *GistStore) Set(ctx context.Context, fid int64, d Details) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load(ctx)
	if err != nil {
		return err
	}
	if err := doc.set(g.encryptor, fid, d); err != nil {
		return err
	}
	return g.save(ctx, doc)
}

func (g *GistStore) Delete(ctx context.Context, fid int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load(ctx)
	if err != nil {
		return err
	}
	if !doc.delete(fid) {
		return nil
	}
	return g.save(ctx, doc)
}

func (g *GistStore) List(ctx context.Context) (map[int64]Details, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.list(g.encryptor)
}

func (g *GistStore) Close() error { return nil }
