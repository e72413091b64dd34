package model

// Fuse is one ATDF fuse byte/word with its bitfields.
type Fuse struct {
	Name         string         `json:"name" yaml:"name"`
	Offset       int64          `json:"offset" yaml:"offset"`
	Size         int            `json:"size" yaml:"size"`
	Mask         *int64         `json:"mask,omitempty" yaml:"mask,omitempty"`
	DefaultValue *int64         `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Bitfields    []FuseBitfield `json:"bitfields,omitempty" yaml:"bitfields,omitempty"`
}

// FuseBitfield is one named bit range of a fuse.
type FuseBitfield struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	BitOffset   int              `json:"bit_offset" yaml:"bit_offset"`
	BitWidth    int              `json:"bit_width" yaml:"bit_width"`
	Values      map[int64]string `json:"values,omitempty" yaml:"values,omitempty"`
}

// ConfigWord is one PIC configuration word with its enumerated fields.
type ConfigWord struct {
	Name         string             `json:"name" yaml:"name"`
	Address      int64              `json:"address" yaml:"address"`
	DefaultValue int64              `json:"default_value" yaml:"default_value"`
	Mask         int64              `json:"mask" yaml:"mask"`
	Bitfields    []RegisterBitfield `json:"bitfields,omitempty" yaml:"bitfields,omitempty"`
}

// Interrupt is one interrupt vector or synthesized interrupt source.
type Interrupt struct {
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// DeviceSignature is one signature/device-id byte or word.
type DeviceSignature struct {
	Name    string `json:"name" yaml:"name"`
	Address *int64 `json:"address,omitempty" yaml:"address,omitempty"`
	Value   int64  `json:"value" yaml:"value"`
	Mask    *int64 `json:"mask,omitempty" yaml:"mask,omitempty"`
}

// OscillatorConfig is one oscillator option declared by a PIC
// configuration field.
type OscillatorConfig struct {
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	ConfigMask    string `json:"config_mask,omitempty" yaml:"config_mask,omitempty"`
	WhenCondition string `json:"when_condition,omitempty" yaml:"when_condition,omitempty"`
	CName         string `json:"c_name,omitempty" yaml:"c_name,omitempty"`
	LegacyAlias   string `json:"legacy_alias,omitempty" yaml:"legacy_alias,omitempty"`
}
