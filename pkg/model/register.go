package model

// Module is one peripheral (or, for the PIC dialect, one SFR bank used
// as a structural stand-in) grouping register groups.
type Module struct {
	Name           string          `json:"name" yaml:"name"`
	Caption        string          `json:"caption,omitempty" yaml:"caption,omitempty"`
	RegisterGroups []RegisterGroup `json:"register_groups,omitempty" yaml:"register_groups,omitempty"`
}

// RegisterGroup is a named set of registers inside a module.
type RegisterGroup struct {
	Name      string     `json:"name" yaml:"name"`
	Caption   string     `json:"caption,omitempty" yaml:"caption,omitempty"`
	Registers []Register `json:"registers,omitempty" yaml:"registers,omitempty"`
}

// Register is one memory-mapped register. Size is in bytes; every
// bitfield range lies within [0, Size*8).
type Register struct {
	Name    string `json:"name" yaml:"name"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Offset  int64  `json:"offset" yaml:"offset"`
	Size    int    `json:"size" yaml:"size"`

	// Mask and InitValue are nil when the document declares no
	// meaningful value.
	Mask      *int64 `json:"mask,omitempty" yaml:"mask,omitempty"`
	InitValue *int64 `json:"init_value,omitempty" yaml:"init_value,omitempty"`

	// Access is R, W or RW.
	Access string `json:"access,omitempty" yaml:"access,omitempty"`

	Bitfields []RegisterBitfield `json:"bitfields,omitempty" yaml:"bitfields,omitempty"`
}

// RegisterBitfield is one named bit range inside a register. Two
// bitfields of the same register overlap only when they alias the same
// physical bits under different names.
type RegisterBitfield struct {
	Name      string `json:"name" yaml:"name"`
	Caption   string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Mask      int64  `json:"mask" yaml:"mask"`
	BitOffset int    `json:"bit_offset" yaml:"bit_offset"`
	BitWidth  int    `json:"bit_width" yaml:"bit_width"`

	// Values maps field values to their enumerated labels.
	Values map[int64]string `json:"values,omitempty" yaml:"values,omitempty"`
}
