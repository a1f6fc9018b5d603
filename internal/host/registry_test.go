package host

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 0, r.Len())

	h := r.Create(100)
	require.Equal(t, 1, r.Len())

	arr, err := r.Get(h)
	require.NoError(t, err)
	require.Equal(t, uint64(128), arr.BitLength())

	refs, err := r.Refs(h)
	require.NoError(t, err)
	require.Equal(t, 1, refs)

	// Two holders: releasing one keeps the array alive.
	require.NoError(t, r.Retain(h))
	require.NoError(t, r.Release(h))
	_, err = r.Get(h)
	require.NoError(t, err)

	// Releasing the last reference removes the entry for good.
	require.NoError(t, r.Release(h))
	require.Equal(t, 0, r.Len())

	_, err = r.Get(h)
	require.ErrorIs(t, err, ErrUnknownHandle)
	require.ErrorIs(t, r.Retain(h), ErrUnknownHandle)
	require.ErrorIs(t, r.Release(h), ErrUnknownHandle)
}

func TestRegistryUnknownHandle(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get(42)
	require.ErrorIs(t, err, ErrUnknownHandle)
}

func TestRegistryDistinctHandles(t *testing.T) {
	r := NewRegistry()

	a := r.Create(64)
	b := r.Create(64)
	require.NotEqual(t, a, b)

	arrA, err := r.Get(a)
	require.NoError(t, err)
	require.NoError(t, arrA.Put(0, true))

	arrB, err := r.Get(b)
	require.NoError(t, err)
	require.Equal(t, uint64(0), arrB.CountOnes(), "handles must not share storage")
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()
	h := r.Create(64)

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				if err := r.Retain(h); err != nil {
					return err
				}
				if err := r.Release(h); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	refs, err := r.Refs(h)
	require.NoError(t, err)
	require.Equal(t, 1, refs)
}
