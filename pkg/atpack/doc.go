// Package atpack extracts device descriptions from AtPack device files.
//
// The two vendor dialects are handled by separate extractors sharing the
// model types: ATDF for ATMEL parts and PIC/EDC for Microchip parts.
// ParseDevice dispatches on the dialect tag; ComputeDeviceSpecs derives
// aggregate memory sizing from the raw PIC sectors. Archive and Pack
// give file-level access to .atpack containers and their PDSC index.
//
// Extraction is all-or-nothing: a malformed document or missing device
// fails with an error, while optional blocks a document simply does not
// declare come back as nil values.
package atpack
