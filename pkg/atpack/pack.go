package atpack

import (
	"path"
	"sort"
	"strings"

	"github.com/atpack-tools/atpack-go/pkg/model"
)

// Pack combines an archive with its PDSC index: dialect detection,
// device listing and per-device extraction. Parsing happens per call;
// nothing is cached.
type Pack struct {
	archive *Archive
	meta    model.PackMetadata
}

// OpenPack opens an .atpack file or extracted directory and reads its
// PDSC header. Packs without a usable PDSC fall back to classifying by
// the device-file extensions they carry.
func OpenPack(pathname string) (*Pack, error) {
	archive, err := OpenArchive(pathname)
	if err != nil {
		return nil, err
	}

	p := &Pack{archive: archive, meta: model.PackMetadata{Family: model.DialectUnsupported}}
	if pdscFiles, err := archive.FindPDSC(); err == nil && len(pdscFiles) > 0 {
		if text, err := archive.ReadFile(pdscFiles[0]); err == nil {
			if meta, err := ParsePDSCMetadata(text); err == nil {
				p.meta = *meta
			}
		}
	}
	if p.meta.Family == model.DialectUnsupported {
		p.meta.Family = p.familyFromFiles()
	}
	return p, nil
}

// Close releases the underlying archive.
func (p *Pack) Close() error { return p.archive.Close() }

// Metadata returns the pack's PDSC header.
func (p *Pack) Metadata() model.PackMetadata { return p.meta }

// Dialect returns the detected device-file dialect.
func (p *Pack) Dialect() model.Dialect { return p.meta.Family }

// Archive exposes the underlying file access.
func (p *Pack) Archive() *Archive { return p.archive }

// Files lists archive files, optionally filtered by a substring
// pattern.
func (p *Pack) Files(pattern string) ([]string, error) { return p.archive.List(pattern) }

// ReadFile reads one logical file from the archive.
func (p *Pack) ReadFile(name string) (string, error) { return p.archive.ReadFile(name) }

func (p *Pack) familyFromFiles() model.Dialect {
	if atdf, err := p.archive.FindATDF(); err == nil && len(atdf) > 0 {
		return model.DialectATDF
	}
	if pic, err := p.archive.FindPIC(); err == nil && len(pic) > 0 {
		return model.DialectPIC
	}
	return model.DialectUnsupported
}

// Devices lists the device names of the pack: the PDSC declarations
// when present, otherwise the device-file stems.
func (p *Pack) Devices() ([]string, error) {
	if pdscFiles, err := p.archive.FindPDSC(); err == nil && len(pdscFiles) > 0 {
		if text, err := p.archive.ReadFile(pdscFiles[0]); err == nil {
			if names, err := ListPDSCDevices(text); err == nil && len(names) > 0 {
				return names, nil
			}
		}
	}

	files, err := p.deviceFiles()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files {
		names = append(names, fileStem(f))
	}
	sort.Strings(names)
	return names, nil
}

// Device extracts one device by name. The device file is resolved by
// its stem, compared case-insensitively.
func (p *Pack) Device(name string) (*model.Device, error) {
	file, err := p.deviceFile(name)
	if err != nil {
		return nil, err
	}
	text, err := p.archive.ReadFile(file)
	if err != nil {
		return nil, err
	}
	// The file stem carries the device's canonical casing; the in-file
	// name lookup is exact.
	return ParseDevice(text, p.meta.Family, fileStem(file))
}

// DeviceSpecs derives aggregate memory sizing for one PIC device.
func (p *Pack) DeviceSpecs(name string) (*model.DeviceSpecs, error) {
	if p.meta.Family != model.DialectPIC {
		return nil, ErrUnsupportedDialect
	}
	file, err := p.deviceFile(name)
	if err != nil {
		return nil, err
	}
	text, err := p.archive.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ComputeDeviceSpecs(text, fileStem(file))
}

func (p *Pack) deviceFiles() ([]string, error) {
	switch p.meta.Family {
	case model.DialectATDF:
		return p.archive.FindATDF()
	case model.DialectPIC:
		return p.archive.FindPIC()
	}
	return nil, ErrUnsupportedDialect
}

func (p *Pack) deviceFile(name string) (string, error) {
	files, err := p.deviceFiles()
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if strings.EqualFold(fileStem(f), name) {
			return f, nil
		}
	}
	return "", &DeviceNotFoundError{Name: name}
}

// fileStem returns a file name without directories or extension.
func fileStem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
