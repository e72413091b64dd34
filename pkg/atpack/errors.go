package atpack

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is wrapped when a logical file is absent from an
// archive.
var ErrFileNotFound = errors.New("file not found in atpack")

// ErrUnsupportedDialect is returned for packs whose device files are
// neither ATDF nor PIC.
var ErrUnsupportedDialect = errors.New("unsupported device file dialect")

// DeviceNotFoundError reports that a named device does not exist in the
// document or pack.
type DeviceNotFoundError struct {
	Name string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device %q not found", e.Name)
}

// ParseError wraps any extraction failure with the device it occurred
// on.
type ParseError struct {
	Device string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("parse device %q: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("parse device file: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
