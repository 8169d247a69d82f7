package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/cc-courses/internal/logger"
)

const (
	ScheduleURL     = "https://www.coloradocollege.edu/academics/curriculum/catalog/schedule.html"
	CatalogBaseURL  = "https://www.coloradocollege.edu/academics/curriculum/catalog/"
	CoursesSelector = `table[data-jplist-group="courses"]`
	UserAgent       = "cc-courses/1.0 (github.com/pfrederiksen/cc-courses)"
	Timeout         = 30 * time.Second
)

// TableFetcher returns the inner HTML of the courses table.
type TableFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Scraper handles fetching the schedule page and extracting the courses table
type Scraper struct {
	client   *http.Client
	url      string
	selector string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the schedule page URL.
func WithURL(url string) Option {
	return func(s *Scraper) {
		if url != "" {
			s.url = url
		}
	}
}

// WithSelector overrides the CSS selector used to locate the table.
func WithSelector(selector string) Option {
	return func(s *Scraper) {
		if selector != "" {
			s.selector = selector
		}
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:      ScheduleURL,
		selector: CoursesSelector,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the schedule page address this scraper reads.
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the schedule page and returns the courses table's inner HTML.
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("scraper.fetch", time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", &TransportError{URL: s.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RemoteError{URL: s.url, StatusCode: resp.StatusCode}
	}

	return s.extractTable(resp.Body)
}

// extractTable finds the courses table in an HTML document
func (s *Scraper) extractTable(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", &TransportError{URL: s.url, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	tables := doc.Find(s.selector)
	switch tables.Length() {
	case 0:
		logger.Warn("courses table not found", logger.Fields{"url": s.url, "selector": s.selector})
		return "", ErrTableNotFound
	case 1:
	default:
		logger.Warn("selector matched more than one table, using the first", logger.Fields{
			"url":     s.url,
			"matches": tables.Length(),
		})
	}

	table := tables.First()
	html, err := table.Html()
	if err != nil {
		return "", &TransportError{URL: s.url, Err: fmt.Errorf("serializing table: %w", err)}
	}

	logger.Info("found the courses table", logger.Fields{
		"url":  s.url,
		"rows": table.Find("tr").Length(),
	})

	return strings.TrimSpace(html), nil
}
