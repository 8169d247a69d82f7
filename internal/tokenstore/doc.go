// Package tokenstore persists Farcaster frame notification details.
//
// When a user adds the frame or enables notifications, their client sends a
// notification URL and token. Those are stored per fid and read back to send
// notifications. Four backends implement Store:
//
//   - MemoryStore: in-process map, lost on restart
//   - FileStore: a JSON file in the data directory
//   - SQLiteStore: a modernc.org/sqlite database with embedded migrations
//   - GistStore: a JSON file in a private GitHub Gist, via go-github
//
// The persistent backends can encrypt the URL and token at rest with
// internal/crypto. Get returns ErrNotFound for unknown fids; Delete of an
// unknown fid is not an error.
package tokenstore
