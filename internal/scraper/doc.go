// Package scraper fetches the Colorado College course schedule page and extracts
// the courses table.
//
// The schedule page is a public HTML document; the table of interest is marked
// with data-jplist-group="courses". The scraper returns the table's inner HTML
// untouched so downstream packages can rewrite links and build row models from
// the original markup. Failures are reported as typed errors (ErrTableNotFound,
// *TransportError, *RemoteError) so the HTTP layer can map them to status codes.
package scraper
