package extract

import "errors"

var (
	// ErrUnsupportedFormat indicates a kind with no extraction path.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnreadable indicates the payload could not be decoded as its declared kind.
	ErrUnreadable = errors.New("file content unreadable")
)
