// Package frame implements the server side of Farcaster frame webhooks:
// JSON Farcaster Signature verification, the event payload schema and
// delivery of frame notifications to stored tokens.
package frame
