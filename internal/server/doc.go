// Package server serves the course schedule over HTTP: the JSON table API,
// the Farcaster frame webhook and a server-rendered search page.
package server
