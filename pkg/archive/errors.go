package archive

import "errors"

// Sentinel errors for caller mistakes. Callers can match these with
// errors.Is while still getting a human-readable message with context.
var (
	// ErrNilPage is returned when a nil page is inserted into a PageSet.
	ErrNilPage = errors.New("nil archived page")

	// ErrDuplicatePage is returned when a page equal to one already in a
	// PageSet is inserted. The set is left unchanged.
	ErrDuplicatePage = errors.New("duplicate archived page")

	// ErrBadFilename is returned when a filename does not conform to the
	// url@timestamp archive naming scheme.
	ErrBadFilename = errors.New("malformed archive filename")

	// ErrNotDirectory is returned by the store writers when the target
	// path is not an existing directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNoBrowser is returned when neither rendering backend could be
	// started. It wraps the individual backend failures.
	ErrNoBrowser = errors.New("no rendering engine available")
)
