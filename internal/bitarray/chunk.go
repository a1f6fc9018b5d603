package bitarray

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// ChunkWords is the number of 64-bit words moved per chunk call, so a full
// chunk serializes to 8192 bytes. It bounds both per-call lock hold time
// and per-call buffer size.
const ChunkWords = 1024

// ChunkBytes is the serialized size of a full chunk.
const ChunkBytes = ChunkWords * 8

// Cursor is the caller-held position of a multi-call chunked transfer:
// either the next chunk number to request, or the EOF sentinel. The engine
// never remembers where a transfer is; the caller resubmits the cursor.
type Cursor int64

// EOF marks the end of a chunked transfer.
const EOF Cursor = -1

// Done reports whether the transfer is complete.
func (c Cursor) Done() bool {
	return c == EOF
}

// Chunk returns the chunk number this cursor points at. Only meaningful
// when Done is false.
func (c Cursor) Chunk() uint64 {
	return uint64(c)
}

// chunkBounds resolves chunkNum against the word count: the first word of
// the chunk, the number of words it covers, and whether it is the final
// chunk. A chunkNum at or past the end yields size 0 and last=true.
func (b *bitArrayImpl) chunkBounds(chunkNum uint64) (offset, size uint64, last bool) {
	numWords := uint64(len(b.words))

	var remaining uint64
	if chunkNum < (numWords+ChunkWords-1)/ChunkWords {
		offset = chunkNum * ChunkWords
		remaining = numWords - offset
	}

	size = remaining
	if size > ChunkWords {
		size = ChunkWords
	}
	return offset, size, remaining <= ChunkWords
}

// SerializeChunk encodes one chunk of words as little-endian bytes.
func (b *bitArrayImpl) SerializeChunk(chunkNum uint64) (Cursor, []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	offset, size, last := b.chunkBounds(chunkNum)

	buf := make([]byte, size*8)
	for i := uint64(0); i < size; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], b.words[offset+i])
	}

	if last {
		return EOF, buf
	}
	return Cursor(chunkNum + 1), buf
}

// MergeChunk ORs data into the array starting at absolute byte position
// byteOffset. The range is validated up front; on error no word has been
// touched.
func (b *bitArrayImpl) MergeChunk(data []byte, byteOffset uint64) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Overflow-free form: byteOffset+len(data) could wrap past capBytes.
	capBytes := uint64(len(b.words)) * 8
	if byteOffset > capBytes || uint64(len(data)) > capBytes-byteOffset {
		return 0, fmt.Errorf("%w: bytes [%d, +%d) exceed capacity %d", ErrIndexOutOfRange, byteOffset, len(data), capBytes)
	}
	end := byteOffset + uint64(len(data))

	for x, c := range data {
		p := byteOffset + uint64(x)
		b.words[p/8] |= uint64(c) << (8 * (p % 8))
	}
	return end, nil
}

// CountOnesChunk returns the set-bit count of one chunk of words.
func (b *bitArrayImpl) CountOnesChunk(chunkNum uint64) (Cursor, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	offset, size, last := b.chunkBounds(chunkNum)

	var count uint64
	for i := uint64(0); i < size; i++ {
		count += uint64(bits.OnesCount64(b.words[offset+i]))
	}

	if last {
		return EOF, count
	}
	return Cursor(chunkNum + 1), count
}
