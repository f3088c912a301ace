package settings

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no document is stored for the identity.
var ErrNotFound = errors.New("settings document not found")

// ErrCorrupt indicates that the stored document is not valid JSON or lacks a usable "type".
var ErrCorrupt = errors.New("settings document is corrupt")

// ErrInvalidID indicates that the identity ID cannot be mapped to a file name.
var ErrInvalidID = errors.New("invalid identity ID")

// ErrExists indicates that Create was called for an identity that already has a document.
var ErrExists = errors.New("settings document already exists")

// ErrUnknownKey indicates that the key is not writable on the document's kind.
var ErrUnknownKey = errors.New("unknown settings key")

// ErrInvalidValue indicates that the value does not fit the key's field.
var ErrInvalidValue = errors.New("invalid settings value")

// IOError wraps a file system failure other than a missing document.
type IOError struct {
	Op  string
	ID  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s settings of %s: %s", e.Op, e.ID, e.Err.Error())
}

func (e *IOError) Unwrap() error {
	return e.Err
}
