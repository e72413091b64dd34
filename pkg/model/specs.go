package model

// DeviceSpecs is the derived aggregate sizing of a device, computed
// from raw sectors with shadow sectors excluded from every sum.
type DeviceSpecs struct {
	DeviceName   string `json:"device_name" yaml:"device_name"`
	Architecture string `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Series       string `json:"series,omitempty" yaml:"series,omitempty"`

	FlashSize int64 `json:"flash_size" yaml:"flash_size"`

	GPRTotalSize int64       `json:"gpr_total_size" yaml:"gpr_total_size"`
	GPRSectors   []GprSector `json:"gpr_sectors,omitempty" yaml:"gpr_sectors,omitempty"`

	EEPROMSize int64  `json:"eeprom_size" yaml:"eeprom_size"`
	EEPROMAddr string `json:"eeprom_addr,omitempty" yaml:"eeprom_addr,omitempty"`

	ConfigSize int64  `json:"config_size" yaml:"config_size"`
	ConfigAddr string `json:"config_addr,omitempty" yaml:"config_addr,omitempty"`

	// FCPU is informational only; clock speed is configuration
	// dependent on these parts.
	FCPU string `json:"f_cpu,omitempty" yaml:"f_cpu,omitempty"`
}

// GprSector is one general-purpose RAM bank contributing to the RAM sum.
type GprSector struct {
	Name  string `json:"name" yaml:"name"`
	Start int64  `json:"start" yaml:"start"`
	End   int64  `json:"end" yaml:"end"`
	Size  int64  `json:"size" yaml:"size"`
	Bank  int    `json:"bank" yaml:"bank"`
}

// PackMetadata is the descriptive header of an AtPack, read from its
// PDSC index file.
type PackMetadata struct {
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Vendor      string  `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Version     string  `json:"version,omitempty" yaml:"version,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string  `json:"url,omitempty" yaml:"url,omitempty"`
	Family      Dialect `json:"family" yaml:"family"`
}
