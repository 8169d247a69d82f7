// Package links rewrites relative anchor references in a fetched HTML fragment
// into absolute URLs against the catalog base URL.
//
// Only the href attribute of <a> start tags is touched; every other byte of the
// fragment is copied through unchanged, so normalizing twice is the same as
// normalizing once.
package links
