package model

import "sort"

// Dialect identifies the vendor schema a device was extracted from.
type Dialect string

const (
	// DialectATDF is the ATMEL ATDF device-file dialect.
	DialectATDF Dialect = "ATDF"
	// DialectPIC is the Microchip PIC/EDC device-file dialect.
	DialectPIC Dialect = "PIC"
	// DialectUnsupported marks packs whose device files are neither dialect.
	DialectUnsupported Dialect = "UNSUPPORTED"
)

// Device is the complete extracted description of one microcontroller
// variant. It is assembled from a single document and immutable once
// returned.
type Device struct {
	Name         string  `json:"name" yaml:"name"`
	Dialect      Dialect `json:"dialect" yaml:"dialect"`
	Architecture string  `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Series       string  `json:"series,omitempty" yaml:"series,omitempty"`

	// Memory layout, flat and hierarchical.
	MemorySegments []MemorySegment `json:"memory_segments,omitempty" yaml:"memory_segments,omitempty"`
	MemorySpaces   []MemorySpace   `json:"memory_spaces,omitempty" yaml:"memory_spaces,omitempty"`

	// Peripheral modules with their register groups.
	Modules []Module `json:"modules,omitempty" yaml:"modules,omitempty"`

	// Configuration: ATDF fuses and PIC config words.
	Fuses       []Fuse       `json:"fuses,omitempty" yaml:"fuses,omitempty"`
	ConfigWords []ConfigWord `json:"config_words,omitempty" yaml:"config_words,omitempty"`

	Interrupts []Interrupt       `json:"interrupts,omitempty" yaml:"interrupts,omitempty"`
	Signatures []DeviceSignature `json:"signatures,omitempty" yaml:"signatures,omitempty"`

	// Ancillary blocks; nil or empty when the document does not
	// declare them.
	ElectricalParams  []ElectricalParameter  `json:"electrical_parameters,omitempty" yaml:"electrical_parameters,omitempty"`
	PowerSpec         *PowerSpec             `json:"power_spec,omitempty" yaml:"power_spec,omitempty"`
	OscillatorConfigs []OscillatorConfig     `json:"oscillator_configs,omitempty" yaml:"oscillator_configs,omitempty"`
	Programming       *ProgrammingSpec       `json:"programming,omitempty" yaml:"programming,omitempty"`
	Pinout            []PinInfo              `json:"pinout,omitempty" yaml:"pinout,omitempty"`
	Debug             *DebugCapabilities     `json:"debug,omitempty" yaml:"debug,omitempty"`
	ArchitectureInfo  *ArchitectureInfo      `json:"architecture_info,omitempty" yaml:"architecture_info,omitempty"`
	Peripherals       []string               `json:"detected_peripherals,omitempty" yaml:"detected_peripherals,omitempty"`
	PackageVariants   []PackageVariant       `json:"package_variants,omitempty" yaml:"package_variants,omitempty"`
	PinoutTables      []PinoutTable          `json:"pinout_tables,omitempty" yaml:"pinout_tables,omitempty"`
	ProgInterfaces    []ProgrammingInterface `json:"programming_interfaces,omitempty" yaml:"programming_interfaces,omitempty"`
}

// AllRegisters returns every register of every module, sorted ascending
// by offset.
func (d *Device) AllRegisters() []Register {
	var regs []Register
	for _, m := range d.Modules {
		for _, g := range m.RegisterGroups {
			regs = append(regs, g.Registers...)
		}
	}
	sort.SliceStable(regs, func(i, j int) bool { return regs[i].Offset < regs[j].Offset })
	return regs
}

// FindRegister returns the first register with the given name, or false
// when no module declares it.
func (d *Device) FindRegister(name string) (Register, bool) {
	for _, m := range d.Modules {
		for _, g := range m.RegisterGroups {
			for _, r := range g.Registers {
				if r.Name == name {
					return r, true
				}
			}
		}
	}
	return Register{}, false
}

// SegmentsByStart returns the flat memory segments sorted ascending by
// start address, preserving document order for equal starts.
func (d *Device) SegmentsByStart() []MemorySegment {
	segs := make([]MemorySegment, len(d.MemorySegments))
	copy(segs, d.MemorySegments)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	return segs
}
