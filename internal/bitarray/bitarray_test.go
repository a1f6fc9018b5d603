package bitarray

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNew(t *testing.T) {
	tests := []struct {
		numBits       uint64
		expectedWords int
		expectedBits  uint64
	}{
		{0, 0, 0},
		{1, 1, 64},
		{63, 1, 64},
		{64, 1, 64},
		{65, 2, 128},
		{100, 2, 128},
		{128, 2, 128},
		{1000, 16, 1024},
	}

	for _, tt := range tests {
		b := New(tt.numBits).(*bitArrayImpl)
		require.Equal(t, tt.expectedWords, len(b.words), "New(%d) word count", tt.numBits)
		require.Equal(t, tt.expectedBits, b.BitLength(), "New(%d) bit length", tt.numBits)
		require.Equal(t, uint64(0), b.CountOnes(), "New(%d) should start empty", tt.numBits)
	}
}

func TestPutAndGet(t *testing.T) {
	b := New(128)

	positions := map[uint64]struct{}{
		0: {}, 1: {}, 7: {}, 8: {}, 63: {}, 64: {}, 65: {}, 127: {},
	}
	for pos := range positions {
		require.NoError(t, b.Put(pos, true))
	}

	// Every other bit must be untouched by the puts above.
	for i := uint64(0); i < 128; i++ {
		_, shouldBeSet := positions[i]
		set, err := b.Get(i)
		require.NoError(t, err)
		require.Equal(t, shouldBeSet, set, "bit %d set status", i)
	}
}

func TestPutClears(t *testing.T) {
	b := New(64)

	for i := uint64(0); i < 64; i++ {
		require.NoError(t, b.Put(i, true))
	}

	cleared := map[uint64]struct{}{0: {}, 7: {}, 8: {}, 31: {}, 63: {}}
	for pos := range cleared {
		require.NoError(t, b.Put(pos, false))
	}

	for i := uint64(0); i < 64; i++ {
		_, wasCleared := cleared[i]
		set, err := b.Get(i)
		require.NoError(t, err)
		require.Equal(t, !wasCleared, set, "bit %d set status", i)
	}
}

func TestCountOnes(t *testing.T) {
	b := New(1000)

	indices := []uint64{0, 1, 63, 64, 500, 999}
	for _, i := range indices {
		require.NoError(t, b.Put(i, true))
	}
	require.Equal(t, uint64(len(indices)), b.CountOnes())

	// Setting an already-set bit must not double-count.
	require.NoError(t, b.Put(63, true))
	require.Equal(t, uint64(len(indices)), b.CountOnes())

	require.NoError(t, b.Put(63, false))
	require.Equal(t, uint64(len(indices)-1), b.CountOnes())
}

func TestPaddingBits(t *testing.T) {
	// 100 requested bits round up to 128; bits 100..127 are ordinary bits.
	b := New(100)
	require.Equal(t, uint64(128), b.BitLength())

	require.NoError(t, b.Put(127, true))
	set, err := b.Get(127)
	require.NoError(t, err)
	require.True(t, set, "padding bit should be reachable")
	require.Equal(t, uint64(1), b.CountOnes(), "padding bit should be counted")
}

func TestPointScenario(t *testing.T) {
	b := New(100)

	require.NoError(t, b.Put(99, true))
	set, err := b.Get(99)
	require.NoError(t, err)
	require.True(t, set)
	require.Equal(t, uint64(1), b.CountOnes())
	require.Equal(t, uint64(128), b.BitLength())
}

func TestOutOfRange(t *testing.T) {
	b := New(100) // 128-bit capacity

	_, err := b.Get(128)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	err = b.Put(128, true)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	// The empty array rejects every index.
	empty := New(0)
	_, err = empty.Get(0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestConcurrentPut(t *testing.T) {
	const (
		workers = 8
		perGoro = 1000
	)

	b := New(workers * perGoro)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		base := uint64(w * perGoro)
		g.Go(func() error {
			for i := uint64(0); i < perGoro; i++ {
				if err := b.Put(base+i, true); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, uint64(workers*perGoro), b.CountOnes())
}
