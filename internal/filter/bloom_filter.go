package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/AbdulRehman197/flower-bloom-filter/internal/bitarray"
)

// ErrParamMismatch reports a union of filters with different k or m;
// their bit positions are not comparable.
var ErrParamMismatch = errors.New("bloom filter parameter mismatch")

// bloomFilter implements a space-efficient probabilistic data structure
// for set membership testing with no false negatives. The backing bit
// array is safe for concurrent use, so Add and MayContain may race freely;
// Union streams the other filter's bits over the chunked transfer
// protocol, so it is not atomic with respect to concurrent Adds on the
// source (see bitarray.BitArray).
type bloomFilter struct {
	bits bitarray.BitArray
	k    uint32 // number of hash functions
	m    uint64 // number of filter bits
}

var _ Filter = (*bloomFilter)(nil)

// OptimalParams computes bloom filter parameters for n expected elements
// at false positive rate p (e.g. 0.01 for 1%). Always returns k >= 1 and
// m >= 1, even for degenerate inputs.
func OptimalParams(n uint64, p float64) (k uint32, m uint64) {
	if n < 1 {
		n = 1
	}

	// m = -n * ln(p) / (ln(2)^2)
	m = uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m < 1 {
		m = 1
	}

	// k = (m/n) * ln(2)
	k = uint32(math.Ceil(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}

	return k, m
}

// NewBloomFilter creates a bloom filter with k hash functions over m bits.
// Both are clamped to a minimum of 1; positions are computed mod m, so a
// zero-bit filter cannot exist.
func NewBloomFilter(k uint32, m uint64) Filter {
	if k < 1 {
		k = 1
	}
	if m < 1 {
		m = 1
	}
	return &bloomFilter{
		bits: bitarray.New(m),
		k:    k,
		m:    m,
	}
}

// Add inserts a key into the bloom filter.
func (bf *bloomFilter) Add(key []byte) {
	h1, h2 := bf.hash(key)
	for i := uint64(0); i < uint64(bf.k); i++ {
		pos := (h1 + i*h2) % bf.m
		// pos < m <= BitLength, so the put cannot fail.
		_ = bf.bits.Put(pos, true)
	}
}

// MayContain returns true if the key might be in the set.
func (bf *bloomFilter) MayContain(key []byte) bool {
	h1, h2 := bf.hash(key)
	for i := uint64(0); i < uint64(bf.k); i++ {
		pos := (h1 + i*h2) % bf.m
		set, _ := bf.bits.Get(pos)
		if !set {
			return false
		}
	}
	return true
}

// Union OR-merges other's bits into this filter chunk by chunk, never
// materializing the whole bit array as one buffer.
func (bf *bloomFilter) Union(other Filter) error {
	o, ok := other.(*bloomFilter)
	if !ok {
		return fmt.Errorf("%w: unsupported filter type %T", ErrParamMismatch, other)
	}
	if o.k != bf.k || o.m != bf.m {
		return fmt.Errorf("%w: have k=%d m=%d, got k=%d m=%d", ErrParamMismatch, bf.k, bf.m, o.k, o.m)
	}

	var byteOffset uint64
	chunk := uint64(0)
	for {
		cursor, buf := o.bits.SerializeChunk(chunk)
		if len(buf) > 0 {
			next, err := bf.bits.MergeChunk(buf, byteOffset)
			if err != nil {
				return err
			}
			byteOffset = next
		}
		if cursor.Done() {
			return nil
		}
		chunk = cursor.Chunk()
	}
}

// Fill returns the set-bit ratio, accumulated chunk by chunk. Filter bits
// all land below m, so padding bits never contribute.
func (bf *bloomFilter) Fill() float64 {
	var ones uint64
	chunk := uint64(0)
	for {
		cursor, partial := bf.bits.CountOnesChunk(chunk)
		ones += partial
		if cursor.Done() {
			break
		}
		chunk = cursor.Chunk()
	}
	return float64(ones) / float64(bf.m)
}

// hash computes two 64-bit hashes for double hashing. Positions are
// (h1 + i*h2) mod m for i in [0, k).
func (bf *bloomFilter) hash(key []byte) (uint64, uint64) {
	h1 := xxh3.Hash(key)
	h2 := xxh3.HashSeed(key, 1)

	// A zero stride would probe the same position k times.
	if h2 == 0 {
		h2 = 1
	}

	return h1, h2
}
