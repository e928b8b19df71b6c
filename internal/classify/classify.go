// Package classify guesses whether a hyperlink points at a news story.
// The heuristic only looks at the URL: hyphenated headline slugs, dated
// paths and long numeric article ids vote yes; section fronts, tag pages
// and non-web schemes vote no. Uncertainty and unparseable input always
// degrade to false, never to an error.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Path roots that mark index-style pages rather than stories.
var sectionRoots = map[string]bool{
	"tag":      true,
	"tags":     true,
	"topic":    true,
	"topics":   true,
	"category": true,
	"section":  true,
	"sections": true,
	"author":   true,
	"authors":  true,
	"search":   true,
	"gallery":  true,
	"video":    true,
	"videos":   true,
	"photos":   true,
	"about":    true,
	"contact":  true,
}

var (
	yearSegment = regexp.MustCompile(`^(19|20)\d{2}$`)
	longNumber  = regexp.MustCompile(`\d{5,}`)
)

// Guess reports whether href likely points at a news story. It never
// fails: anything it cannot make sense of is not a story.
func Guess(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}

	switch u.Scheme {
	case "http", "https", "":
	default:
		// mailto:, javascript:, tel: and friends are never stories.
		return false
	}

	// Absolute URLs must have a registrable domain. Relative hrefs
	// (extracted from archived markup) are judged on the path alone.
	if host := strings.TrimPrefix(u.Hostname(), "www."); host != "" {
		if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
			return false
		}
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return false
	}
	segments := strings.Split(path, "/")
	if sectionRoots[strings.ToLower(segments[0])] {
		return false
	}

	// Dated paths: /2014/07/06/....
	for _, seg := range segments {
		if yearSegment.MatchString(seg) && len(segments) > 1 {
			return true
		}
	}

	slug := segments[len(segments)-1]
	slug = strings.TrimSuffix(slug, ".html")
	slug = strings.TrimSuffix(slug, ".htm")

	// Headline slugs read like "senate-passes-budget-deal".
	if strings.Count(slug, "-") >= 3 {
		return true
	}

	// Long numeric ids are CMS article keys.
	return longNumber.MatchString(slug)
}
