package model

// ElectricalParameter is one entry of an electrical characteristics
// property group.
type ElectricalParameter struct {
	Group       string   `json:"group" yaml:"group"`
	Name        string   `json:"name" yaml:"name"`
	Caption     string   `json:"caption,omitempty" yaml:"caption,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Typical     *float64 `json:"typical,omitempty" yaml:"typical,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Unit        string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Conditions  string   `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// PowerSpec holds supply and programming voltage ranges. All fields are
// optional; the block itself is omitted when the document declares no
// meaningful power data.
type PowerSpec struct {
	VDDMin        *float64 `json:"vdd_min,omitempty" yaml:"vdd_min,omitempty"`
	VDDMax        *float64 `json:"vdd_max,omitempty" yaml:"vdd_max,omitempty"`
	VDDNominal    *float64 `json:"vdd_nominal,omitempty" yaml:"vdd_nominal,omitempty"`
	VDDDefaultMin *float64 `json:"vdd_default_min,omitempty" yaml:"vdd_default_min,omitempty"`
	VDDDefaultMax *float64 `json:"vdd_default_max,omitempty" yaml:"vdd_default_max,omitempty"`
	VPPMin        *float64 `json:"vpp_min,omitempty" yaml:"vpp_min,omitempty"`
	VPPMax        *float64 `json:"vpp_max,omitempty" yaml:"vpp_max,omitempty"`
	VPPDefault    *float64 `json:"vpp_default,omitempty" yaml:"vpp_default,omitempty"`

	HasHighVoltageMCLR *bool `json:"has_high_voltage_mclr,omitempty" yaml:"has_high_voltage_mclr,omitempty"`
}

// ProgrammingSpec describes programming/erase characteristics.
type ProgrammingSpec struct {
	EraseAlgo      string                `json:"erase_algo,omitempty" yaml:"erase_algo,omitempty"`
	MemTech        string                `json:"mem_tech,omitempty" yaml:"mem_tech,omitempty"`
	HasLVP         *bool                 `json:"has_lvp,omitempty" yaml:"has_lvp,omitempty"`
	LVPThreshold   *float64              `json:"lvp_threshold,omitempty" yaml:"lvp_threshold,omitempty"`
	ProgramTries   *int                  `json:"program_tries,omitempty" yaml:"program_tries,omitempty"`
	HasRowEraseCmd *bool                 `json:"has_row_erase_cmd,omitempty" yaml:"has_row_erase_cmd,omitempty"`
	WaitTimes      []ProgrammingWaitTime `json:"wait_times,omitempty" yaml:"wait_times,omitempty"`
	RowSizes       []ProgrammingRowSize  `json:"row_sizes,omitempty" yaml:"row_sizes,omitempty"`
}

// ProgrammingWaitTime is the wait time of one programming operation.
type ProgrammingWaitTime struct {
	Operation string `json:"operation" yaml:"operation"`
	Time      int64  `json:"time" yaml:"time"`
	Units     string `json:"units" yaml:"units"`
}

// ProgrammingRowSize is the row size of one programming operation.
type ProgrammingRowSize struct {
	Operation string `json:"operation" yaml:"operation"`
	Size      int64  `json:"size" yaml:"size"`
}

// DebugCapabilities describes on-chip debug resources.
type DebugCapabilities struct {
	HardwareBreakpoints *int   `json:"hardware_breakpoints,omitempty" yaml:"hardware_breakpoints,omitempty"`
	HasDataCapture      *bool  `json:"has_data_capture,omitempty" yaml:"has_data_capture,omitempty"`
	IDByte              string `json:"id_byte,omitempty" yaml:"id_byte,omitempty"`
}

// ArchitectureInfo holds instruction-set and memory-trait metadata.
type ArchitectureInfo struct {
	InstructionSet     string `json:"instruction_set,omitempty" yaml:"instruction_set,omitempty"`
	HardwareStackDepth *int   `json:"hardware_stack_depth,omitempty" yaml:"hardware_stack_depth,omitempty"`
	CodeWordSize       *int   `json:"code_word_size,omitempty" yaml:"code_word_size,omitempty"`
	DataWordSize       *int   `json:"data_word_size,omitempty" yaml:"data_word_size,omitempty"`
}
