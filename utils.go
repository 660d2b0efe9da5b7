package smoldb

import "encoding/binary"

// bytesIsZero checks data a word at a time. The page buffer has no alignment
// guarantee, so words are decoded rather than loaded through a pointer.
func bytesIsZero(data []byte) bool {
	if len(data)%8 != 0 {
		panic("data is not a multiple of 8")
	}
	var v uint64
	for len(data) > 0 {
		v |= binary.LittleEndian.Uint64(data)
		data = data[8:]
	}
	return v == 0
}
