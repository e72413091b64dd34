package atpack

import (
	"fmt"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

// ParseDevice extracts the named device from a raw device-file text.
// The dialect selects the extractor; an empty name picks the first
// device declared in the document.
func ParseDevice(text string, dialect model.Dialect, name string) (*model.Device, error) {
	doc, err := query.Load(text)
	if err != nil {
		return nil, &ParseError{Device: name, Err: err}
	}
	switch dialect {
	case model.DialectATDF:
		return parseATDF(doc, name)
	case model.DialectPIC:
		return parsePIC(doc, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
}

// ComputeDeviceSpecs derives aggregate memory sizing for the named PIC
// device from its raw sectors, with shadow sectors excluded from every
// sum.
func ComputeDeviceSpecs(text string, name string) (*model.DeviceSpecs, error) {
	doc, err := query.Load(text)
	if err != nil {
		return nil, &ParseError{Device: name, Err: err}
	}
	return extractDeviceSpecs(doc, name)
}
