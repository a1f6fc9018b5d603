package filter

// Filter is a probabilistic set membership structure with no false
// negatives: MayContain returns false only when the key is definitely
// absent.
type Filter interface {
	// Add inserts a key into the filter.
	Add(key []byte)

	// MayContain returns true if the key might be in the set.
	// Returns false if the key is definitely NOT in the set.
	MayContain(key []byte) bool

	// Union merges another filter of identical parameters into this one,
	// producing the filter of the combined key sets.
	Union(other Filter) error

	// Fill returns the fraction of filter bits currently set.
	Fill() float64
}
