package common

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadUint8(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
	}{
		{"Zero", 0},
		{"One", 1},
		{"Max", 255},
		{"Mid", 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteUint8(&buf, tt.value)
			require.NoError(t, err)
			require.Equal(t, 1, n)

			result, err := ReadUint8(&buf)
			require.NoError(t, err)
			require.Equal(t, tt.value, result)
		})
	}
}

func TestWriteReadUint64(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
	}{
		{"Zero", 0},
		{"One", 1},
		{"Max", 0xFFFFFFFFFFFFFFFF},
		{"Mid", 0x8000000000000000},
		{"Large", 1234567890123456789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteUint64(&buf, tt.value)
			require.NoError(t, err)
			require.Equal(t, 8, n)

			result, err := ReadUint64(&buf)
			require.NoError(t, err)
			require.Equal(t, tt.value, result)
		})
	}
}

func TestUint64LittleEndian(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteUint64(&buf, 0x0102030405060708)
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf.Bytes())
}

func TestWriteReadBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"SingleByte", []byte{0x42}},
		{"SmallData", []byte("hello")},
		{"LargeData", bytes.Repeat([]byte("x"), 1000)},
		{"BinaryData", []byte{0x00, 0xFF, 0x7F, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteBytes(&buf, tt.data)
			require.NoError(t, err)
			require.Equal(t, len(tt.data), n)

			result, err := ReadBytes(&buf, uint64(len(tt.data)))
			require.NoError(t, err)
			require.Equal(t, tt.data, result)
		})
	}
}

func TestReadBytesShort(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 2, 3})
	_, err := ReadBytes(buf, 8)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
