package archive

import "fmt"

// pageKey indexes PageSet membership under the Page equality rule.
// UnixNano normalizes timestamps across locations the same way time.Equal
// does.
type pageKey struct {
	url  string
	ts   int64
	html string
}

func keyOf(p *Page) pageKey {
	return pageKey{url: p.URL, ts: p.Timestamp.UnixNano(), html: p.HTML}
}

// PageSet is an ordered collection of archived pages with uniqueness
// enforced by Page equality. Insertion stores a shallow copy, so mutating
// the caller's page after Add is not observable through the set.
type PageSet struct {
	pages []*Page
	index map[pageKey]struct{}
}

// NewPageSet builds a set from the given pages. Construction is atomic:
// every element is checked before any is accepted, and the first nil or
// duplicate page fails the whole call.
func NewPageSet(pages ...*Page) (*PageSet, error) {
	s := &PageSet{index: make(map[pageKey]struct{})}
	for i, p := range pages {
		if err := s.Add(p); err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
	}
	return s, nil
}

// Add inserts a shallow copy of p, preserving insertion order. It returns
// ErrNilPage for a nil page and ErrDuplicatePage when an equal page is
// already present; in both cases the set is unchanged.
func (s *PageSet) Add(p *Page) error {
	if p == nil {
		return ErrNilPage
	}
	k := keyOf(p)
	if _, ok := s.index[k]; ok {
		return fmt.Errorf("%w: %s @ %s", ErrDuplicatePage, p.URL, p.Timestamp)
	}
	cp := *p
	s.pages = append(s.pages, &cp)
	s.index[k] = struct{}{}
	return nil
}

// Contains reports whether a page equal to p is in the set.
func (s *PageSet) Contains(p *Page) bool {
	if p == nil {
		return false
	}
	_, ok := s.index[keyOf(p)]
	return ok
}

// Len returns the number of pages in the set.
func (s *PageSet) Len() int { return len(s.pages) }

// Pages returns the stored pages in insertion order. The slice is a copy;
// the pages themselves are the set's own.
func (s *PageSet) Pages() []*Page {
	out := make([]*Page, len(s.pages))
	copy(out, s.pages)
	return out
}
