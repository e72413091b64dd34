package atpack

// maskToRange decodes a bit mask into its field position: the offset of
// the lowest set bit and the length of the contiguous run starting
// there. A zero mask yields (0, 0).
func maskToRange(mask int64) (offset, width int) {
	if mask == 0 {
		return 0, 0
	}
	for mask&1 == 0 {
		mask >>= 1
		offset++
	}
	for mask&1 == 1 {
		mask >>= 1
		width++
	}
	return offset, width
}
