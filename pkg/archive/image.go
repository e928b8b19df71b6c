package archive

// Orientation values derived from an image's rendered dimensions.
const (
	OrientationSquare    = "square"
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
)

// Image is an image element captured from a rendered page.
//
// Width and Height are pointers because archived pages are rendered from
// local files: remote images routinely fail to load and report no size.
// A nil dimension means "unknown", which is different from zero.
type Image struct {
	Src    string
	Width  *float64
	Height *float64
	X      float64
	Y      float64
}

// Equal reports whether two images have the same source URL. Geometry is
// ignored: the same asset rendered at two positions is one image.
func (i *Image) Equal(other *Image) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.Src == other.Src
}

// Area returns width*height, or nil when either dimension is unknown.
func (i *Image) Area() *float64 {
	if i.Width == nil || i.Height == nil {
		return nil
	}
	area := *i.Width * *i.Height
	return &area
}

// Orientation classifies the image shape as square, landscape or portrait.
// It returns the empty string when either dimension is unknown.
func (i *Image) Orientation() string {
	switch {
	case i.Width == nil || i.Height == nil:
		return ""
	case *i.Width == *i.Height:
		return OrientationSquare
	case *i.Width > *i.Height:
		return OrientationLandscape
	default:
		return OrientationPortrait
	}
}
