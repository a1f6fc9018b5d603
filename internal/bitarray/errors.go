package bitarray

import "errors"

// ErrIndexOutOfRange reports a bit index or byte range outside the
// array's fixed capacity. Always returned wrapped with the offending
// index and the valid range; match with errors.Is.
var ErrIndexOutOfRange = errors.New("index out of range")
