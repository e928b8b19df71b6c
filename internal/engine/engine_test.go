package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pastpages/storytracker/pkg/archive"
)

func fp(v float64) *float64 { return &v }

// fakeBrowser is a canned rendering backend for tests.
type fakeBrowser struct {
	name        string
	anchors     []AnchorData
	images      []ImageData
	anchorErr   error
	loadErr     error
	loads       []string
	anchorCalls int
	imageCalls  int
	closed      bool
}

func (b *fakeBrowser) Name() string { return b.name }

func (b *fakeBrowser) Load(path string) error {
	b.loads = append(b.loads, path)
	return b.loadErr
}

func (b *fakeBrowser) Anchors() ([]AnchorData, error) {
	b.anchorCalls++
	return b.anchors, b.anchorErr
}

func (b *fakeBrowser) Images() ([]ImageData, error) {
	b.imageCalls++
	return b.images, nil
}

func (b *fakeBrowser) Close() error {
	b.closed = true
	return nil
}

func backendFor(b *fakeBrowser) Backend {
	return func() (Browser, error) { return b, nil }
}

func failingBackend(err error) Backend {
	return func() (Browser, error) { return nil, err }
}

// renderedPage returns a page already written to an .html path, so tests
// exercise the engine without touching the global temp directory.
func renderedPage(t *testing.T) *archive.Page {
	t.Helper()

	p := archive.NewPage("http://www.example.com/",
		time.Date(2014, 7, 6, 16, 31, 57, 0, time.UTC),
		"<html><body></body></html>")
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(p.HTML), 0644); err != nil {
		t.Fatal(err)
	}
	p.RenderedFilePath = path
	return p
}

// TestHyperlinks tests extraction, filtering and DOM-order indexing.
func TestHyperlinks(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{
		name: "fake",
		anchors: []AnchorData{
			{Href: "http://x.com/a", Text: "Story", X: 10, Y: 20, FontSize: "16px"},
			{Href: "", Text: "anchor with no href"},
			{Href: "http://skipped.com/", Text: ""},
			{
				Href: "http://y.com/b", Text: "Pic", X: 30, Y: 40, FontSize: "14px",
				Images: []ImageData{
					{Src: "http://y.com/i.jpg", Width: fp(100), Height: fp(50), X: 30, Y: 40},
					{Src: ""}, // missing src, skipped
				},
			},
		},
	}

	page := renderedPage(t)
	eng := New(page,
		WithBackends(backendFor(browser)),
		WithClassifier(func(href string) bool { return href == "http://x.com/a" }),
	)

	links, err := eng.Hyperlinks(true)
	if err != nil {
		t.Fatalf("Hyperlinks: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, expected 2 (anchors missing href or text skipped)", len(links))
	}

	first, second := links[0], links[1]
	if first.Index != 0 || second.Index != 1 {
		t.Errorf("indices = %d,%d, expected 0,1 in DOM order", first.Index, second.Index)
	}
	if first.Href != "http://x.com/a" || first.Text != "Story" {
		t.Errorf("unexpected first link: %+v", first)
	}
	if !first.IsStory {
		t.Error("classifier result not applied to first link")
	}
	if second.IsStory {
		t.Error("second link should not be a story")
	}
	if second.Domain != "y.com" {
		t.Errorf("domain = %q, expected y.com", second.Domain)
	}
	if second.FontSize != "14px" || second.X != 30 || second.Y != 40 {
		t.Errorf("geometry/style not captured: %+v", second)
	}

	if len(second.Images) != 1 {
		t.Fatalf("got %d nested images, expected 1 (empty src skipped)", len(second.Images))
	}
	img := second.Images[0]
	if img.Orientation() != archive.OrientationLandscape {
		t.Errorf("orientation = %q, expected landscape", img.Orientation())
	}
	if area := img.Area(); area == nil || *area != 5000 {
		t.Errorf("area = %v, expected 5000", area)
	}

	if got := page.Hyperlinks; len(got) != 2 {
		t.Errorf("cache not populated: %d links", len(got))
	}
}

// TestHyperlinksCaching tests the lazy cache and its force escape hatch.
func TestHyperlinksCaching(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{
		name:    "fake",
		anchors: []AnchorData{{Href: "http://x.com/a", Text: "A"}},
	}
	eng := New(renderedPage(t), WithBackends(backendFor(browser)))

	first, err := eng.Hyperlinks(false)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := eng.Hyperlinks(false)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if browser.anchorCalls != 1 {
		t.Errorf("browser traversed %d times, expected 1", browser.anchorCalls)
	}
	if &first[0] != &second[0] {
		t.Error("second call should return the identical cached list")
	}

	if _, err := eng.Hyperlinks(true); err != nil {
		t.Fatalf("forced call: %v", err)
	}
	if browser.anchorCalls != 2 {
		t.Errorf("force did not re-extract: %d traversals", browser.anchorCalls)
	}
}

// TestImages tests page-wide image extraction and its cache contract.
func TestImages(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{
		name: "fake",
		images: []ImageData{
			{Src: "http://x.com/a.jpg", Width: fp(10), Height: fp(10)},
			{Src: ""}, // missing src, skipped
			{Src: "http://x.com/b.jpg"},
		},
	}
	page := renderedPage(t)
	eng := New(page, WithBackends(backendFor(browser)))

	images, err := eng.Images(false)
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, expected 2", len(images))
	}
	if images[1].Width != nil || images[1].Orientation() != "" {
		t.Error("image without dimensions should have unknown size and orientation")
	}

	if _, err := eng.Images(false); err != nil {
		t.Fatal(err)
	}
	if browser.imageCalls != 1 {
		t.Errorf("cached call traversed the browser again: %d calls", browser.imageCalls)
	}
}

// TestLargestImage tests area maximization and first-wins tie-breaking.
func TestLargestImage(t *testing.T) {
	t.Parallel()

	t.Run("first occurrence wins on exact ties", func(t *testing.T) {
		t.Parallel()

		page := renderedPage(t)
		page.Images = []*archive.Image{
			{Src: "small", Width: fp(10), Height: fp(10)},
			{Src: "tie-a", Width: fp(100), Height: fp(50)},
			{Src: "tie-b", Width: fp(50), Height: fp(100)},
			{Src: "no-area", Width: fp(1000)},
		}
		eng := New(page, WithBackends(backendFor(&fakeBrowser{})))

		got := eng.LargestImage()
		if got == nil || got.Src != "tie-a" {
			t.Errorf("got %+v, expected tie-a", got)
		}
	})

	t.Run("nil when no image has a computable area", func(t *testing.T) {
		t.Parallel()

		page := renderedPage(t)
		page.Images = []*archive.Image{{Src: "a"}, {Src: "b", Height: fp(50)}}
		eng := New(page, WithBackends(backendFor(&fakeBrowser{})))

		if got := eng.LargestImage(); got != nil {
			t.Errorf("got %+v, expected nil", got)
		}
	})
}

// TestOpenBrowser tests idempotence, fallback and the fatal error.
func TestOpenBrowser(t *testing.T) {
	t.Parallel()

	t.Run("no-op when already open", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{name: "fake"}
		eng := New(renderedPage(t), WithBackends(backendFor(browser)))

		if err := eng.OpenBrowser(); err != nil {
			t.Fatal(err)
		}
		if err := eng.OpenBrowser(); err != nil {
			t.Fatal(err)
		}
		if len(browser.loads) != 1 {
			t.Errorf("page loaded %d times, expected 1", len(browser.loads))
		}
	})

	t.Run("falls back when the primary fails to start", func(t *testing.T) {
		t.Parallel()

		secondary := &fakeBrowser{name: "secondary"}
		eng := New(renderedPage(t), WithBackends(
			failingBackend(errors.New("no primary engine")),
			backendFor(secondary),
		))

		if err := eng.OpenBrowser(); err != nil {
			t.Fatalf("fallback failed: %v", err)
		}
		if len(secondary.loads) != 1 {
			t.Error("secondary backend was not used")
		}
	})

	t.Run("falls back when the primary cannot load the page", func(t *testing.T) {
		t.Parallel()

		broken := &fakeBrowser{name: "broken", loadErr: errors.New("render crash")}
		secondary := &fakeBrowser{name: "secondary"}
		eng := New(renderedPage(t), WithBackends(backendFor(broken), backendFor(secondary)))

		if err := eng.OpenBrowser(); err != nil {
			t.Fatalf("fallback failed: %v", err)
		}
		if !broken.closed {
			t.Error("failed backend was not closed")
		}
		if len(secondary.loads) != 1 {
			t.Error("secondary backend was not used")
		}
	})

	t.Run("fatal when every backend fails", func(t *testing.T) {
		t.Parallel()

		eng := New(renderedPage(t), WithBackends(
			failingBackend(errors.New("no rod")),
			failingBackend(errors.New("no chrome")),
		))

		err := eng.OpenBrowser()
		if !errors.Is(err, archive.ErrNoBrowser) {
			t.Errorf("got %v, expected ErrNoBrowser", err)
		}
	})

	t.Run("writes the page to a scratch directory when not on disk", func(t *testing.T) {
		t.Parallel()

		page := archive.NewPage("http://www.example.com/",
			time.Date(2014, 7, 6, 16, 31, 57, 0, time.UTC),
			"<html><body>scratch</body></html>")
		browser := &fakeBrowser{name: "fake"}
		eng := New(page, WithBackends(backendFor(browser)))

		if err := eng.OpenBrowser(); err != nil {
			t.Fatal(err)
		}
		defer os.RemoveAll(filepath.Dir(page.RenderedFilePath))

		if !isHTMLPath(page.RenderedFilePath) {
			t.Fatalf("RenderedFilePath = %q, expected an .html path", page.RenderedFilePath)
		}
		data, err := os.ReadFile(page.RenderedFilePath)
		if err != nil {
			t.Fatalf("scratch file not written: %v", err)
		}
		if string(data) != page.HTML {
			t.Error("scratch file does not contain the page HTML")
		}
	})
}

// TestCloseBrowser tests idempotent release.
func TestCloseBrowser(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{name: "fake"}
	eng := New(renderedPage(t), WithBackends(backendFor(browser)))

	if err := eng.CloseBrowser(); err != nil {
		t.Errorf("closing with no browser open: %v", err)
	}

	if err := eng.OpenBrowser(); err != nil {
		t.Fatal(err)
	}
	if err := eng.CloseBrowser(); err != nil {
		t.Fatal(err)
	}
	if !browser.closed {
		t.Error("browser handle not released")
	}
	if err := eng.CloseBrowser(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

// TestAnalyze tests the convenience sequence and its close guarantee.
func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("refreshes both caches and closes the browser", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{
			name:    "fake",
			anchors: []AnchorData{{Href: "http://x.com/a", Text: "A"}},
			images:  []ImageData{{Src: "http://x.com/i.jpg"}},
		}
		page := renderedPage(t)
		// Stale cache that a plain non-forced call would have returned.
		page.Hyperlinks = []*archive.Link{{Href: "stale"}}

		eng := New(page, WithBackends(backendFor(browser)))
		if err := eng.Analyze(); err != nil {
			t.Fatalf("Analyze: %v", err)
		}

		if len(page.Hyperlinks) != 1 || page.Hyperlinks[0].Href != "http://x.com/a" {
			t.Error("stale hyperlink cache was not force-refreshed")
		}
		if len(page.Images) != 1 {
			t.Error("image cache not populated")
		}
		if !browser.closed {
			t.Error("browser left open after Analyze")
		}
	})

	t.Run("closes the browser even when extraction fails", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{
			name:      "fake",
			anchorErr: errors.New("evaluation failed"),
		}
		eng := New(renderedPage(t), WithBackends(backendFor(browser)))

		if err := eng.Analyze(); err == nil {
			t.Fatal("expected an error from the failing extraction")
		}
		if !browser.closed {
			t.Error("browser left open after a failed Analyze")
		}
	})
}
