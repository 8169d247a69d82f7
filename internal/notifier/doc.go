// Package notifier announces new course rows found by the check command.
//
// Implementations post to Twitter, a Telegram chat, or every Farcaster user
// who enabled frame notifications. A dry-run notifier prints what would be
// sent. Multi fans one batch out to several notifiers.
package notifier
