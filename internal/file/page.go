package file

import "encoding/binary"

// Page is an owning fixed-size byte buffer of length block_size (spec §3).
// Integers are stored little-endian; the spec's open question on
// endianness is resolved here in favor of a fixed, documented choice so
// the on-disk format is portable across hosts, rather than pinning to
// host-native order as the original C++ memcpy implementation does.
type Page struct {
	buf []byte
}

// NewPage allocates a zero-filled page of the given block size.
func NewPage(blockSize int) *Page {
	return &Page{buf: make([]byte, blockSize)}
}

// NewPageFromBytes wraps an existing buffer without copying, used by the
// log manager which owns its own tail-block buffer.
func NewPageFromBytes(b []byte) *Page {
	return &Page{buf: b}
}

// GetInt reads a 4-byte integer at offset.
func (p *Page) GetInt(offset int) int {
	return int(int32(binary.LittleEndian.Uint32(p.buf[offset : offset+4])))
}

// SetInt writes a 4-byte integer at offset.
func (p *Page) SetInt(offset int, val int) {
	binary.LittleEndian.PutUint32(p.buf[offset:offset+4], uint32(int32(val)))
}

// GetBytes reads a length-prefixed byte blob at offset.
func (p *Page) GetBytes(offset int) []byte {
	length := p.GetInt(offset)
	start := offset + 4
	out := make([]byte, length)
	copy(out, p.buf[start:start+length])
	return out
}

// SetBytes writes a length-prefixed byte blob at offset.
func (p *Page) SetBytes(offset int, b []byte) {
	p.SetInt(offset, len(b))
	copy(p.buf[offset+4:offset+4+len(b)], b)
}

// GetString reads a string stored as a length-prefixed blob at offset.
func (p *Page) GetString(offset int) string {
	return string(p.GetBytes(offset))
}

// SetString writes s as a length-prefixed blob at offset.
func (p *Page) SetString(offset int, s string) {
	p.SetBytes(offset, []byte(s))
}

// MaxLength computes the on-disk footprint of a string of the given
// character count under an ASCII (byte-per-character) assumption.
func MaxLength(charCount int) int {
	return 4 + charCount
}

// Contents returns the underlying buffer, for the file manager to read
// from / write to directly.
func (p *Page) Contents() []byte {
	return p.buf
}
