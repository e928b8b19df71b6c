// Package archive defines the public data types for archived web pages:
// the page record itself, the hyperlinks and images extracted from its
// rendered DOM, the deduplicating page set, and the reversible filename
// scheme that identifies an archive on disk.
package archive

import (
	"bytes"
	"compress/gzip"
	"time"
)

// Page is an archived HTML response captured at a URL and timestamp.
//
// URL, Timestamp and HTML are the page's identity. Hyperlinks, Images and
// RenderedFilePath are cache fields owned by the render engine: they start
// empty and are only populated after an extraction pass has run.
type Page struct {
	URL       string
	Timestamp time.Time
	HTML      string

	// Cache fields, mutated by the render engine and the store writers.
	Hyperlinks       []*Link
	Images           []*Image
	RenderedFilePath string
}

// NewPage creates a page record with no cache fields set.
func NewPage(url string, timestamp time.Time, html string) *Page {
	return &Page{
		URL:       url,
		Timestamp: timestamp,
		HTML:      html,
	}
}

// Equal reports whether two pages have the same URL, timestamp and HTML.
// Cache-field state is ignored: a freshly loaded page and an analyzed copy
// of it are still the same archive.
func (p *Page) Equal(other *Page) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.URL == other.URL &&
		p.Timestamp.Equal(other.Timestamp) &&
		p.HTML == other.HTML
}

// Filename returns the archive filename encoding the page's URL and
// timestamp, without an extension.
func (p *Page) Filename() string {
	return EncodeFilename(p.URL, p.Timestamp)
}

// GzipBytes returns the page's HTML, UTF-8 encoded and gzip-compressed.
func (p *Page) GzipBytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(p.HTML)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
