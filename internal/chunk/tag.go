// Package chunk defines the PNG container's header record layouts: the
// signature, the chunk header, the IHDR record, and the tag/validity
// predicates that govern chunk ordering.
package chunk

import "encoding/binary"

// Tag is a chunk type packed into a big-endian 32-bit value, matching how
// it appears on the wire (the four ASCII bytes of e.g. "IHDR").
type Tag uint32

// Known chunk tags. Unknown ancillary tags are represented by their raw
// Tag value; there is no need to enumerate every possible ancillary chunk.
const (
	TagIHDR Tag = 0x49484452 // "IHDR"
	TagPLTE Tag = 0x504C5445 // "PLTE"
	TagIDAT Tag = 0x49444154 // "IDAT"
	TagIEND Tag = 0x49454E44 // "IEND"
	TagTRNS Tag = 0x74524E53 // "tRNS"
	TagGAMA Tag = 0x67414D41 // "gAMA"
	TagCHRM Tag = 0x6348524D // "cHRM"
	TagPHYS Tag = 0x70485973 // "pHYs"
	TagTEXT Tag = 0x74455874 // "tEXt"
	TagZTXT Tag = 0x7A545874 // "zTXt"
	TagTIME Tag = 0x74494D45 // "tIME"
	TagBKGD Tag = 0x624B4744 // "bKGD"
	TagSBIT Tag = 0x73424954 // "sBIT"
	TagHIST Tag = 0x68495354 // "hIST"
)

// TagFromBytes packs a 4-byte chunk type as read off the wire into a Tag.
func TagFromBytes(b []byte) Tag {
	return Tag(binary.BigEndian.Uint32(b))
}

// TagFromString packs a 4-character chunk type name into a Tag. Panics if
// s is not exactly 4 bytes; only used with compile-time-constant names.
func TagFromString(s string) Tag {
	if len(s) != 4 {
		panic("chunk: tag name must be 4 bytes: " + s)
	}
	return TagFromBytes([]byte(s))
}

// String renders the tag as its 4-character ASCII name.
func (t Tag) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(t))
	return string(b[:])
}

// IsCritical reports whether a chunk of this type must be understood by
// every conforming decoder. Per the PNG chunk-naming convention this is
// bit 5 (0x20, the "case bit") of the first type byte: critical chunks
// have it clear, i.e. the first letter is uppercase.
func (t Tag) IsCritical() bool {
	firstByte := byte(t >> 24)
	return firstByte&0x20 == 0
}
