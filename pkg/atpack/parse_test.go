package atpack

import (
	"errors"
	"testing"

	"github.com/atpack-tools/atpack-go/pkg/model"
	"github.com/atpack-tools/atpack-go/pkg/query"
)

func TestParseDeviceUnsupportedDialect(t *testing.T) {
	_, err := ParseDevice(`<root/>`, model.DialectUnsupported, "X")
	if !errors.Is(err, ErrUnsupportedDialect) {
		t.Fatalf("err = %v, want ErrUnsupportedDialect", err)
	}
}

func TestParseDeviceMalformedInput(t *testing.T) {
	_, err := ParseDevice(`<device name="X">`, model.DialectATDF, "X")
	if err == nil {
		t.Fatal("parsed truncated document")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if pe.Device != "X" {
		t.Fatalf("device = %q", pe.Device)
	}
	if !errors.Is(err, query.ErrMalformed) {
		t.Fatalf("err = %v, want wrapped ErrMalformed", err)
	}
}

func TestComputeDeviceSpecsMalformedInput(t *testing.T) {
	_, err := ComputeDeviceSpecs(`not xml at all`, "PIC16F877A")
	if !errors.Is(err, query.ErrMalformed) {
		t.Fatalf("err = %v, want wrapped ErrMalformed", err)
	}
}
