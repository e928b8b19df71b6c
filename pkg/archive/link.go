package archive

import "net/url"

// Link is a hyperlink captured from a rendered page.
type Link struct {
	Href     string
	Text     string
	Index    int // position among the page's links, 0-based, DOM order
	Domain   string
	Images   []*Image // images nested inside the anchor's subtree
	X        float64
	Y        float64
	FontSize string // computed style, e.g. "16px"
	IsStory  bool
}

// Equal reports whether two links point at the same href. Display text,
// position and the rest of the metadata are ignored.
func (l *Link) Equal(other *Link) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.Href == other.Href
}

// Host returns the host portion of an href, or the empty string when the
// href is relative or unparseable.
func Host(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Host
}
