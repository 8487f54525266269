package core

import "bytes"

// Checksum is an opaque, equatable digest of a file's contents, computed by
// a FilesystemAccessor via a streaming hash. The core engine never inspects
// its bytes beyond equality comparison, so it remains agnostic to whatever
// hash algorithm an accessor implementation chooses.
type Checksum []byte

// Equal reports whether two checksums represent identical content digests.
// Two nil or empty checksums are considered equal only to each other.
func (c Checksum) Equal(other Checksum) bool {
	return bytes.Equal(c, other)
}

// String returns a hex-like debug representation. It is for diagnostics
// only; equality must always be tested with Equal, never string comparison.
func (c Checksum) String() string {
	const hexDigits = "0123456789abcdef"
	if len(c) == 0 {
		return "<empty>"
	}
	buf := make([]byte, len(c)*2)
	for i, b := range c {
		buf[i*2] = hexDigits[b>>4]
		buf[i*2+1] = hexDigits[b&0x0f]
	}
	return string(buf)
}
