package engine

// Browser is the capability surface the engine needs from a rendering
// backend: load a local file, report the page's anchors and images with
// geometry and style, and shut down. Both backends satisfy it by running
// the same extraction scripts inside the page.
type Browser interface {
	Name() string
	Load(path string) error
	Anchors() ([]AnchorData, error)
	Images() ([]ImageData, error)
	Close() error
}

// AnchorData is a raw anchor element as reported by a backend. No
// filtering has been applied yet; href or text may be empty.
type AnchorData struct {
	Href     string      `json:"href"`
	Text     string      `json:"text"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	FontSize string      `json:"fontSize"`
	Images   []ImageData `json:"images"`
}

// ImageData is a raw image element as reported by a backend. Width and
// Height are null when the element rendered with no usable size, which is
// common for remote images under file:// loads.
type ImageData struct {
	Src    string   `json:"src"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
}

// Extraction scripts shared by both backends. Each is a zero-argument
// function expression: rod evaluates it directly, chromedp wraps it in a
// call. Dimensions of zero are reported as null so unloaded images come
// back with unknown size rather than 0x0.
const (
	anchorsJS = `() => {
		const dim = (v) => (v > 0 ? v : null);
		const grab = (img) => {
			const r = img.getBoundingClientRect();
			return {
				src: img.getAttribute('src') || '',
				width: dim(img.width),
				height: dim(img.height),
				x: r.x,
				y: r.y,
			};
		};
		return Array.from(document.querySelectorAll('a')).map((a) => {
			const r = a.getBoundingClientRect();
			return {
				href: a.getAttribute('href') || '',
				text: (a.textContent || '').trim(),
				x: r.x,
				y: r.y,
				fontSize: window.getComputedStyle(a).fontSize,
				images: Array.from(a.querySelectorAll('img')).map(grab),
			};
		});
	}`

	imagesJS = `() => {
		const dim = (v) => (v > 0 ? v : null);
		return Array.from(document.querySelectorAll('img')).map((img) => {
			const r = img.getBoundingClientRect();
			return {
				src: img.getAttribute('src') || '',
				width: dim(img.width),
				height: dim(img.height),
				x: r.x,
				y: r.y,
			};
		});
	}`
)
