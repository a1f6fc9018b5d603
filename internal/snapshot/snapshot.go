// Package snapshot moves a bit array to and from a local file using the
// chunked transfer protocol. The body of a snapshot is exactly the wire
// layout: word-major, little-endian, no per-chunk framing — only a small
// header identifying the format and the word count is added.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AbdulRehman197/flower-bloom-filter/internal/bitarray"
	"github.com/AbdulRehman197/flower-bloom-filter/internal/common"
)

const (
	fileMagic   = "FLBA"
	fileVersion = uint8(1)
)

var (
	// ErrBadMagic reports a file that is not a bit array snapshot.
	ErrBadMagic = errors.New("not a bit array snapshot")

	// ErrBadVersion reports a snapshot written by an unknown format version.
	ErrBadVersion = errors.New("unsupported snapshot version")

	// ErrShapeMismatch reports a merge target whose word count differs
	// from the snapshot's.
	ErrShapeMismatch = errors.New("snapshot word count mismatch")
)

// Save writes a snapshot of the array to path. Chunks are pulled from the
// array by one goroutine and written to the file by another, so the
// array's lock is never held across file I/O and writers are blocked for
// at most one chunk at a time. The resulting file is not a point-in-time
// snapshot if writers run concurrently (chunk sequences are not atomic).
func Save(path string, a bitarray.BitArray) error {
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	numWords := a.BitLength() / 64
	if err := writeHeader(w, numWords); err != nil {
		f.Close()
		return err
	}

	chunks := make(chan []byte, 4)
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer close(chunks)
		chunk := uint64(0)
		for {
			cursor, buf := a.SerializeChunk(chunk)
			select {
			case chunks <- buf:
			case <-ctx.Done():
				return ctx.Err()
			}
			if cursor.Done() {
				return nil
			}
			chunk = cursor.Chunk()
		}
	})

	g.Go(func() error {
		for buf := range chunks {
			if _, err := common.WriteBytes(w, buf); err != nil {
				return err
			}
		}
		return w.Flush()
	})

	if err := g.Wait(); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	common.LogDuration(start, "snapshot saved: %s (%d words)", path, numWords)
	return nil
}

// Load reads a snapshot into a freshly allocated bit array. Merging into
// zeroed words is a plain copy.
func Load(path string) (bitarray.BitArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	numWords, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	a := bitarray.New(numWords * 64)
	if err := mergeBody(r, a, numWords); err != nil {
		return nil, err
	}
	return a, nil
}

// MergeInto OR-merges a snapshot into an existing array of the same
// shape. Bits already set in the target stay set.
func MergeInto(path string, a bitarray.BitArray) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	numWords, err := readHeader(r)
	if err != nil {
		return err
	}
	if got := a.BitLength() / 64; got != numWords {
		return fmt.Errorf("%w: snapshot has %d words, target has %d", ErrShapeMismatch, numWords, got)
	}

	return mergeBody(r, a, numWords)
}

// Words returns the word count recorded in a snapshot's header.
func Words(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return readHeader(bufio.NewReader(f))
}

// mergeBody streams the body into the array one chunk-sized read at a
// time, carrying the byte offset between merge calls like any other
// transfer client.
func mergeBody(r io.Reader, a bitarray.BitArray, numWords uint64) error {
	remaining := numWords * 8

	var byteOffset uint64
	for remaining > 0 {
		n := uint64(bitarray.ChunkBytes)
		if n > remaining {
			n = remaining
		}

		data, err := common.ReadBytes(r, n)
		if err != nil {
			return fmt.Errorf("snapshot body truncated: %w", err)
		}

		byteOffset, err = a.MergeChunk(data, byteOffset)
		if err != nil {
			return err
		}
		remaining -= n
	}
	return nil
}

func writeHeader(w io.Writer, numWords uint64) error {
	if _, err := common.WriteBytes(w, []byte(fileMagic)); err != nil {
		return err
	}
	if _, err := common.WriteUint8(w, fileVersion); err != nil {
		return err
	}
	_, err := common.WriteUint64(w, numWords)
	return err
}

func readHeader(r io.Reader) (uint64, error) {
	magic, err := common.ReadBytes(r, uint64(len(fileMagic)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if !bytes.Equal(magic, []byte(fileMagic)) {
		return 0, fmt.Errorf("%w: magic %q", ErrBadMagic, magic)
	}

	version, err := common.ReadUint8(r)
	if err != nil {
		return 0, err
	}
	if version != fileVersion {
		return 0, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}

	return common.ReadUint64(r)
}
