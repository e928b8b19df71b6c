// Package store reads and writes archived pages on disk, as plain .html
// files or gzip-compressed .gz files named by the archive filename scheme.
package store

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pastpages/storytracker/pkg/archive"
)

// Open reads an archive file and returns a fully-populated page with no
// cache fields set. Files with a .gz extension are decompressed; anything
// else is read raw. The page's URL and timestamp come from the file's base
// name, which must conform to the archive naming scheme.
func Open(path string) (*archive.Page, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	rawURL, timestamp, err := archive.DecodeFilename(name)
	if err != nil {
		return nil, err
	}

	var html []byte
	if ext == ".gz" {
		html, err = readGzip(path)
	} else {
		html, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}

	return archive.NewPage(rawURL, timestamp, string(html)), nil
}

// WriteHTML writes the page's HTML to dir as a plain .html file named by
// the archive filename scheme. It records the resulting path on the page
// and returns it.
func WriteHTML(p *archive.Page, dir string) (string, error) {
	if err := checkDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, p.Filename()+".html")
	if err := os.WriteFile(path, []byte(p.HTML), 0644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}
	p.RenderedFilePath = path
	return path, nil
}

// WriteGzip is WriteHTML's gzip-compressed variant, writing a .gz file.
func WriteGzip(p *archive.Page, dir string) (string, error) {
	if err := checkDir(dir); err != nil {
		return "", err
	}
	data, err := p.GzipBytes()
	if err != nil {
		return "", fmt.Errorf("compressing archive: %w", err)
	}
	path := filepath.Join(dir, p.Filename()+".gz")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}
	p.RenderedFilePath = path
	return path, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", archive.ErrNotDirectory, dir)
	}
	return nil
}

func readGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
