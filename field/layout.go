package field

// alignUp rounds n up to the next multiple of align, which must be a power
// of two.
func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// computeLayout places members with the given sizes and alignments at
// naturally aligned, non-overlapping offsets in declaration order and
// returns the offsets, the padded total size and the strictest alignment.
// Sizes and alignments come from the member fields themselves, never from a
// host language struct.
func computeLayout(sizes, aligns []int) (offsets []int, size, align int) {
	offsets = make([]int, len(sizes))
	align = 1
	for i := range sizes {
		if aligns[i] > align {
			align = aligns[i]
		}
		size = alignUp(size, aligns[i])
		offsets[i] = size
		size += sizes[i]
	}
	size = alignUp(size, align)
	return offsets, size, align
}
