package bitarray

import (
	"fmt"
	"math/bits"
	"sync"
)

// bitArrayImpl is a concrete implementation of the BitArray interface.
// One exclusive mutex guards the whole word slice; there are no partial
// locks and no lock is ever held across anything that can block.
type bitArrayImpl struct {
	mu    sync.Mutex
	words []uint64 // bit i lives in words[i/64], LSB-first at position i%64
}

// New creates a bit array holding at least numBits bits, rounded up to the
// next 64-bit word boundary. All bits start at 0.
func New(numBits uint64) BitArray {
	numWords := (numBits + 63) / 64
	return &bitArrayImpl{
		words: make([]uint64, numWords),
	}
}

// Get reports whether bit index is set.
func (b *bitArrayImpl) Get(index uint64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index >= b.bitLengthLocked() {
		return false, fmt.Errorf("%w: bit %d not in [0, %d)", ErrIndexOutOfRange, index, b.bitLengthLocked())
	}
	return b.words[index/64]&(1<<(index%64)) != 0, nil
}

// Put sets or clears bit index.
func (b *bitArrayImpl) Put(index uint64, value bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index >= b.bitLengthLocked() {
		return fmt.Errorf("%w: bit %d not in [0, %d)", ErrIndexOutOfRange, index, b.bitLengthLocked())
	}

	word := b.words[index/64]
	if value {
		word |= 1 << (index % 64)
	} else {
		word &^= 1 << (index % 64)
	}
	b.words[index/64] = word

	return nil
}

// BitLength returns the capacity in bits.
func (b *bitArrayImpl) BitLength() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bitLengthLocked()
}

// CountOnes returns the total number of set bits, padding bits included.
// Single lock acquisition for the whole O(words) scan; use CountOnesChunk
// when that latency matters.
func (b *bitArrayImpl) CountOnes() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var count uint64
	for _, w := range b.words {
		count += uint64(bits.OnesCount64(w))
	}
	return count
}

// bitLengthLocked returns words*64. Callers must hold b.mu.
func (b *bitArrayImpl) bitLengthLocked() uint64 {
	return uint64(len(b.words)) * 64
}
