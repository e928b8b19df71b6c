// Package engine renders an archived page inside a controlled headless
// browser and extracts structured hyperlink and image data from the
// resulting DOM. Results are cached on the page record; extraction is lazy
// with an explicit force-refresh escape hatch, because a browser round
// trip is by far the most expensive operation in the pipeline.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pastpages/storytracker/internal/classify"
	"github.com/pastpages/storytracker/internal/store"
	"github.com/pastpages/storytracker/pkg/archive"
)

// Backend starts a rendering backend.
type Backend func() (Browser, error)

// Rod and Chromedp are the built-in backends, tried in that order by
// default: Rod's launcher is self-contained, chromedp needs a system
// Chrome but tolerates a missing Rod install.
var (
	Rod      Backend = newRodBrowser
	Chromedp Backend = newChromedpBrowser
)

// Engine renders one archived page and extracts its links and images.
// It owns at most one browser handle at a time and never shares it across
// pages; callers analyzing pages in parallel use one Engine per page.
type Engine struct {
	page     *archive.Page
	browser  Browser
	backends []Backend
	sniff    func(string) bool
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithBackends replaces the rendering backends tried by OpenBrowser, in
// order of preference.
func WithBackends(backends ...Backend) Option {
	return func(e *Engine) { e.backends = backends }
}

// WithClassifier replaces the story classifier applied to each link.
func WithClassifier(sniff func(string) bool) Option {
	return func(e *Engine) { e.sniff = sniff }
}

// New creates an engine for the given page.
func New(page *archive.Page, opts ...Option) *Engine {
	e := &Engine{
		page:     page,
		backends: []Backend{Rod, Chromedp},
		sniff:    classify.Guess,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// OpenBrowser starts a rendering backend and loads the page into it. It is
// a no-op when a browser is already open. If the page has not been written
// to an HTML file on disk yet, it is first written to a fresh scratch
// directory. Every backend failing is a fatal error wrapping ErrNoBrowser.
func (e *Engine) OpenBrowser() error {
	if e.browser != nil {
		return nil
	}

	if !isHTMLPath(e.page.RenderedFilePath) {
		if err := e.writeScratch(); err != nil {
			return err
		}
	}
	path, err := filepath.Abs(e.page.RenderedFilePath)
	if err != nil {
		return err
	}

	var failures []error
	for _, start := range e.backends {
		browser, err := start()
		if err != nil {
			failures = append(failures, err)
			e.logger.Warn("rendering backend failed to start", "error", err)
			continue
		}
		if err := browser.Load(path); err != nil {
			failures = append(failures, err)
			e.logger.Warn("rendering backend failed to load page",
				"backend", browser.Name(), "path", path, "error", err)
			browser.Close()
			continue
		}
		e.logger.Debug("browser open", "backend", browser.Name(), "path", path)
		e.browser = browser
		return nil
	}

	return fmt.Errorf("%w: %v", archive.ErrNoBrowser, errors.Join(failures...))
}

// CloseBrowser releases the browser handle. It is a no-op when no browser
// is open.
func (e *Engine) CloseBrowser() error {
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	return err
}

// Analyze is the convenience sequence: open the browser, force-refresh
// hyperlinks and images, close the browser. The browser is closed on
// return even when an extraction step fails; callers needing
// partial-failure handling call the sub-operations directly.
func (e *Engine) Analyze() error {
	if err := e.OpenBrowser(); err != nil {
		return err
	}
	defer e.CloseBrowser()

	if _, err := e.Hyperlinks(true); err != nil {
		return err
	}
	if _, err := e.Images(true); err != nil {
		return err
	}
	return nil
}

// Hyperlinks returns the page's links, extracting them through the browser
// when the cache is empty or force is true. Anchors missing an href or
// display text are skipped, as are nested images without a src; both are
// ordinary properties of noisy archived HTML, not errors. Extraction opens
// the browser if needed but does not close it.
func (e *Engine) Hyperlinks(force bool) ([]*archive.Link, error) {
	if len(e.page.Hyperlinks) > 0 && !force {
		return e.page.Hyperlinks, nil
	}

	if err := e.OpenBrowser(); err != nil {
		return nil, err
	}
	anchors, err := e.browser.Anchors()
	if err != nil {
		return nil, fmt.Errorf("extracting hyperlinks: %w", err)
	}

	links := make([]*archive.Link, 0, len(anchors))
	for _, a := range anchors {
		if a.Href == "" || a.Text == "" {
			continue
		}
		var images []*archive.Image
		for _, img := range a.Images {
			if img.Src == "" {
				continue
			}
			images = append(images, newImage(img))
		}
		links = append(links, &archive.Link{
			Href:     a.Href,
			Text:     a.Text,
			Index:    len(links),
			Domain:   archive.Host(a.Href),
			Images:   images,
			X:        a.X,
			Y:        a.Y,
			FontSize: a.FontSize,
			IsStory:  e.sniff(a.Href),
		})
	}

	e.logger.Debug("hyperlinks extracted", "url", e.page.URL, "count", len(links))
	e.page.Hyperlinks = links
	return links, nil
}

// Images returns every image on the page with a non-empty src, under the
// same caching contract as Hyperlinks.
func (e *Engine) Images(force bool) ([]*archive.Image, error) {
	if len(e.page.Images) > 0 && !force {
		return e.page.Images, nil
	}

	if err := e.OpenBrowser(); err != nil {
		return nil, err
	}
	data, err := e.browser.Images()
	if err != nil {
		return nil, fmt.Errorf("extracting images: %w", err)
	}

	images := make([]*archive.Image, 0, len(data))
	for _, img := range data {
		if img.Src == "" {
			continue
		}
		images = append(images, newImage(img))
	}

	e.logger.Debug("images extracted", "url", e.page.URL, "count", len(images))
	e.page.Images = images
	return images, nil
}

// LargestImage returns the cached image with the greatest area. Images
// with an unknown dimension have no area and are ignored; exact ties go to
// the first in document order. It returns nil when no image has a
// computable area.
func (e *Engine) LargestImage() *archive.Image {
	var best *archive.Image
	var bestArea float64
	for _, img := range e.page.Images {
		area := img.Area()
		if area == nil {
			continue
		}
		if best == nil || *area > bestArea {
			best, bestArea = img, *area
		}
	}
	return best
}

// writeScratch writes the page to a fresh, uniquely named scratch
// directory so concurrent engines never race on the same path.
func (e *Engine) writeScratch() error {
	dir := filepath.Join(os.TempDir(), "storytracker-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	_, err := store.WriteHTML(e.page, dir)
	return err
}

func newImage(d ImageData) *archive.Image {
	return &archive.Image{
		Src:    d.Src,
		Width:  d.Width,
		Height: d.Height,
		X:      d.X,
		Y:      d.Y,
	}
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// fileURL converts an absolute local path to a file:// URL for the
// browser backends.
func fileURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
