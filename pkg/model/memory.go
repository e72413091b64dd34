package model

// MemorySegment is one contiguous region of device memory.
// Start+Size is the exclusive end address.
type MemorySegment struct {
	Name  string `json:"name" yaml:"name"`
	Start int64  `json:"start" yaml:"start"`
	Size  int64  `json:"size" yaml:"size"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`

	// PageSize is the programming page size in bytes, when declared.
	PageSize int64 `json:"page_size,omitempty" yaml:"page_size,omitempty"`

	// AddressSpace labels the address space the segment belongs to
	// (an ATDF address-space name or a PIC container such as "data").
	AddressSpace string `json:"address_space,omitempty" yaml:"address_space,omitempty"`

	// ParentSpace names the containing memory space for hierarchical
	// segments; empty for top-level segments.
	ParentSpace string `json:"parent_space,omitempty" yaml:"parent_space,omitempty"`

	// Level is the hierarchy level: 0 for top-level, 1 for a child of
	// a memory space.
	Level int `json:"level" yaml:"level"`
}

// End returns the exclusive end address of the segment.
func (s MemorySegment) End() int64 { return s.Start + s.Size }

// MemorySpace is a named container of memory segments, such as an ATDF
// address-space or a PIC ProgramSpace/DataSpace/EEDataSpace container.
// Segments are ordered ascending by start address; ties keep document
// order.
type MemorySpace struct {
	Name      string          `json:"name" yaml:"name"`
	SpaceType string          `json:"space_type" yaml:"space_type"`
	Start     *int64          `json:"start,omitempty" yaml:"start,omitempty"`
	Size      *int64          `json:"size,omitempty" yaml:"size,omitempty"`
	Segments  []MemorySegment `json:"segments,omitempty" yaml:"segments,omitempty"`
}
