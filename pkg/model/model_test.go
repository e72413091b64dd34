package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllRegistersSortedByOffset(t *testing.T) {
	dev := &Device{
		Modules: []Module{
			{
				Name: "PORTB",
				RegisterGroups: []RegisterGroup{
					{Name: "PORTB", Registers: []Register{
						{Name: "PORTB", Offset: 0x25, Size: 1},
						{Name: "DDRB", Offset: 0x24, Size: 1},
					}},
				},
			},
			{
				Name: "CPU",
				RegisterGroups: []RegisterGroup{
					{Name: "CPU", Registers: []Register{
						{Name: "SREG", Offset: 0x5F, Size: 1},
						{Name: "SP", Offset: 0x5D, Size: 2},
					}},
				},
			},
		},
	}

	regs := dev.AllRegisters()
	require.Len(t, regs, 4)
	for i := 1; i < len(regs); i++ {
		assert.LessOrEqual(t, regs[i-1].Offset, regs[i].Offset)
	}
	assert.Equal(t, "DDRB", regs[0].Name)
	assert.Equal(t, "SREG", regs[3].Name)
}

func TestFindRegister(t *testing.T) {
	dev := &Device{
		Modules: []Module{
			{
				Name: "ADC",
				RegisterGroups: []RegisterGroup{
					{Name: "ADC", Registers: []Register{
						{Name: "ADCSRA", Offset: 0x7A, Size: 1},
					}},
				},
			},
		},
	}

	reg, ok := dev.FindRegister("ADCSRA")
	require.True(t, ok)
	assert.Equal(t, int64(0x7A), reg.Offset)

	_, ok = dev.FindRegister("NOPE")
	assert.False(t, ok)
}

func TestSegmentsByStartIsStableAndNonMutating(t *testing.T) {
	dev := &Device{
		MemorySegments: []MemorySegment{
			{Name: "SFR_BANK0", Start: 0x20, Size: 0x60},
			{Name: "FLASH", Start: 0x0, Size: 0x1000},
			{Name: "GPR0", Start: 0x20, Size: 0x50},
		},
	}

	sorted := dev.SegmentsByStart()
	require.Len(t, sorted, 3)
	assert.Equal(t, "FLASH", sorted[0].Name)
	// Equal starts keep document order.
	assert.Equal(t, "SFR_BANK0", sorted[1].Name)
	assert.Equal(t, "GPR0", sorted[2].Name)
	// The device's own slice keeps its original order.
	assert.Equal(t, "SFR_BANK0", dev.MemorySegments[0].Name)
}

func TestMemorySegmentEnd(t *testing.T) {
	seg := MemorySegment{Start: 0x2000, Size: 0x100}
	assert.Equal(t, int64(0x2100), seg.End())

	empty := MemorySegment{Start: 0x40, Size: 0}
	assert.Equal(t, int64(0x40), empty.End())
}
