package back

type (
	// Stats accumulates pass diagnostics. Passed explicitly so the pass
	// stays reentrant. Does not affect the result.
	Stats struct {
		Nodes  int // use resolutions
		Hits   int // memo hits
		Misses int
		Remats int // forced recomputations
		Hoists int // loop invariant motions

		SizeBefore int
		SizeAfter  int
	}
)
