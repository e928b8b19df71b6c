package archive

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// The archive naming scheme packs a URL and capture timestamp into a single
// filesystem-safe name: the query-escaped URL, an "@" separator, and the
// timestamp in RFC 3339 form with nanoseconds. Query escaping encodes "@"
// itself, so the separator is unambiguous and the scheme round-trips.

// EncodeFilename returns the archive filename for a URL and timestamp,
// without an extension.
func EncodeFilename(rawURL string, timestamp time.Time) string {
	return url.QueryEscape(rawURL) + "@" + timestamp.Format(time.RFC3339Nano)
}

// DecodeFilename recovers the URL and timestamp from an archive filename.
// Names that do not conform to the scheme fail with ErrBadFilename.
func DecodeFilename(name string) (string, time.Time, error) {
	escaped, stamp, ok := strings.Cut(name, "@")
	if !ok || escaped == "" || stamp == "" {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrBadFilename, name)
	}
	rawURL, err := url.QueryUnescape(escaped)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q: %v", ErrBadFilename, name, err)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q: %v", ErrBadFilename, name, err)
	}
	return rawURL, timestamp, nil
}
