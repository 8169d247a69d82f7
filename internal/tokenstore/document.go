package tokenstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/crypto"
)

// document is the JSON layout shared by FileStore and GistStore.
type document struct {
	Details   map[string]Details `json:"details"` // fid → sealed details
	UpdatedAt string             `json:"updated_at"`
}

func newDocument() *document {
	return &document{Details: make(map[string]Details)}
}

func parseDocument(data []byte) (*document, error) {
	doc := newDocument()
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing notification details: %w", err)
	}
	if doc.Details == nil {
		doc.Details = make(map[string]Details)
	}
	return doc, nil
}

func (d *document) encode() ([]byte, error) {
	d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding notification details: %w", err)
	}
	return data, nil
}

func (d *document) get(enc *crypto.Encryptor, fid int64) (Details, error) {
	sealed, ok := d.Details[fidKey(fid)]
	if !ok {
		return Details{}, ErrNotFound
	}
	return open(enc, sealed)
}

func (d *document) set(enc *crypto.Encryptor, fid int64, details Details) error {
	sealed, err := seal(enc, details)
	if err != nil {
		return err
	}
	d.Details[fidKey(fid)] = sealed
	return nil
}

// delete reports whether anything was removed.
func (d *document) delete(fid int64) bool {
	key := fidKey(fid)
	if _, ok := d.Details[key]; !ok {
		return false
	}
	delete(d.Details, key)
	return true
}

func (d *document) list(enc *crypto.Encryptor) (map[int64]Details, error) {
	out := make(map[int64]Details, len(d.Details))
	for key, sealed := range d.Details {
		fid, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fid %q: %w", key, err)
		}
		details, err := open(enc, sealed)
		if err != nil {
			return nil, fmt.Errorf("fid %d: %w", fid, err)
		}
		out[fid] = details
	}
	return out, nil
}

func fidKey(fid int64) string {
	return strconv.FormatInt(fid, 10)
}
