// Package model defines the uniform hardware-descriptor model extracted
// from vendor device files.
//
// Both supported dialects (ATMEL ATDF and Microchip PIC/EDC) are mapped
// onto the same set of types: memory segments and spaces, peripheral
// modules with registers and bitfields, configuration/fuse words,
// interrupts, signatures, pins and a handful of optional ancillary
// blocks. Every value is constructed once per parse call and never
// mutated afterwards; optional blocks are nil pointers when the source
// document does not declare them.
package model
