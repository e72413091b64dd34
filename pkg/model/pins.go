package model

// PinInfo describes one physical pin and the functions multiplexed on
// it. PrimaryFunction is the first declared function; Category is
// derived from it.
type PinInfo struct {
	PhysicalPin     int           `json:"physical_pin" yaml:"physical_pin"`
	PrimaryFunction string        `json:"primary_function,omitempty" yaml:"primary_function,omitempty"`
	Category        string        `json:"category,omitempty" yaml:"category,omitempty"`
	Functions       []PinFunction `json:"functions,omitempty" yaml:"functions,omitempty"`
}

// PinFunction is one function name a pin can take, with the virtual
// pins it maps to when the document declares them.
type PinFunction struct {
	Name        string   `json:"name" yaml:"name"`
	VirtualPins []string `json:"virtual_pins,omitempty" yaml:"virtual_pins,omitempty"`
}

// PinoutTable is a named package pinout mapping positions to pads.
type PinoutTable struct {
	Name    string      `json:"name" yaml:"name"`
	Caption string      `json:"caption,omitempty" yaml:"caption,omitempty"`
	Pins    []PinoutPin `json:"pins,omitempty" yaml:"pins,omitempty"`
}

// PinoutPin is one position→pad entry of a pinout table.
type PinoutPin struct {
	Position string `json:"position" yaml:"position"`
	Pad      string `json:"pad" yaml:"pad"`
}

// PackageVariant is one orderable package/pinout combination.
type PackageVariant struct {
	OrderCode  string   `json:"order_code,omitempty" yaml:"order_code,omitempty"`
	Package    string   `json:"package" yaml:"package"`
	Pinout     string   `json:"pinout" yaml:"pinout"`
	TempMin    *float64 `json:"temp_min,omitempty" yaml:"temp_min,omitempty"`
	TempMax    *float64 `json:"temp_max,omitempty" yaml:"temp_max,omitempty"`
	SpeedMaxHz *int64   `json:"speed_max_hz,omitempty" yaml:"speed_max_hz,omitempty"`
	VccMin     *float64 `json:"vcc_min,omitempty" yaml:"vcc_min,omitempty"`
	VccMax     *float64 `json:"vcc_max,omitempty" yaml:"vcc_max,omitempty"`
}

// ProgrammingInterface is one declared programming/debug interface with
// its parameters.
type ProgrammingInterface struct {
	Name       string            `json:"name" yaml:"name"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}
