package bitarray

// BitArray is a fixed-length, word-packed bit vector. The word count is
// fixed at construction and never changes; the bit length is always a
// multiple of 64, so up to 63 trailing padding bits exist beyond the
// requested length. Padding bits are ordinary bits: reachable, mutable,
// and included in counts and transfers.
//
// All operations are safe for concurrent use. Each call acquires the
// array's lock for its full duration, so every single call is atomic with
// respect to every other. A sequence of chunk calls belonging to one
// logical transfer is NOT atomic as a whole: a writer running between two
// chunk calls is visible to later chunks and not to earlier ones. Callers
// that need a consistent snapshot across a whole transfer must pause
// writers themselves. This bounds per-call latency and memory; the engine
// keeps no per-transfer state, the caller carries the cursor.
type BitArray interface {
	// Get reports whether bit index is set.
	Get(index uint64) (bool, error)

	// Put sets (value=true) or clears (value=false) bit index via a
	// read-modify-write of its containing word.
	Put(index uint64, value bool) error

	// BitLength returns the capacity in bits: word count times 64.
	BitLength() uint64

	// CountOnes returns the number of set bits across all words, padding
	// included, under a single lock acquisition.
	CountOnes() uint64

	// SerializeChunk encodes up to ChunkWords words starting at word
	// chunkNum*ChunkWords, little-endian, 8 bytes per word. The cursor is
	// EOF when this was the final chunk; a chunkNum past the end yields
	// (EOF, empty buffer) rather than an error, so callers drive
	// iteration purely by checking the cursor.
	SerializeChunk(chunkNum uint64) (Cursor, []byte)

	// MergeChunk ORs the given bytes into the array starting at absolute
	// byte position byteOffset: byte p lands in word p/8, lane p%8. Bits
	// already set stay set; there is no clear variant. Returns
	// byteOffset+len(data), the offset for the next call. The whole range
	// is validated before any word is touched.
	MergeChunk(data []byte, byteOffset uint64) (uint64, error)

	// CountOnesChunk returns the number of set bits in the chunkNum-th
	// chunk of words, with the same cursor semantics as SerializeChunk.
	// Summing the partial counts from chunk 0 to EOF equals CountOnes
	// only if no writer runs during the scan.
	CountOnesChunk(chunkNum uint64) (Cursor, uint64)
}
