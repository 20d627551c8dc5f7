package format

// Align4 returns n aligned up to the next 4-byte boundary.
// Used for cell sizes and entry payloads.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + CellAlignmentMask) & ^CellAlignmentMask
}

// AlignGrow returns n aligned up to the next SegmentGrowStep boundary.
func AlignGrow(n int) int {
	return (n + SegmentGrowStep - 1) & ^(SegmentGrowStep - 1)
}

// EntryPayloadSize returns the padded payload size of an entry holding a
// string of n bytes.
//
// Example:
//
//	EntryPayloadSize(0) = 8
//	EntryPayloadSize(2) = 8
//	EntryPayloadSize(3) = 12
func EntryPayloadSize(n int) int {
	return Align4(EntryHeaderSize + n)
}

// TablePayloadSize returns the payload size of a table with count buckets.
func TablePayloadSize(count int) int {
	return TableEntriesOffset + count*TableBucketSize
}
