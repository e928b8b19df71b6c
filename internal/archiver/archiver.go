// Package archiver captures a live URL into a new archived page. It makes
// exactly one request per call and follows no links; crawling is out of
// scope for this tool.
package archiver

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/pastpages/storytracker/pkg/archive"
)

// Archiver fetches pages for archiving.
type Archiver struct {
	userAgent string
	timeout   time.Duration
	maxBody   int
	logger    *slog.Logger
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithUserAgent sets the request user agent.
func WithUserAgent(ua string) Option {
	return func(a *Archiver) { a.userAgent = ua }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Archiver) { a.timeout = d }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) { a.logger = logger }
}

// New creates an Archiver with sensible defaults.
func New(opts ...Option) *Archiver {
	a := &Archiver{
		userAgent: "storytracker/1.0",
		timeout:   10 * time.Second,
		maxBody:   4194304, // 4MB
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Capture fetches rawURL once and returns it as an archived page stamped
// with the current UTC time. No cache fields are set; analysis is the
// render engine's job.
func (a *Archiver) Capture(rawURL string) (*archive.Page, error) {
	c := colly.NewCollector()
	c.UserAgent = a.userAgent
	c.SetRequestTimeout(a.timeout)
	c.MaxBodySize = a.maxBody
	// A capture is a single explicit request, not a crawl.
	c.IgnoreRobotsTxt = true

	var body []byte
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, fetchErr)
	}

	page := archive.NewPage(rawURL, time.Now().UTC(), string(body))
	a.logger.Info("captured page",
		"url", rawURL,
		"bytes", len(body),
		"title", pageTitle(string(body)),
	)
	return page, nil
}

// pageTitle pulls the <title> text out of raw markup for log lines.
// Failures just mean an empty title.
func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
