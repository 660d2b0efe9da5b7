package smoldb

import "unsafe"

// recordArea is the forward-growing arena of fixed-size record slots.
type recordArea struct {
	slots *[RecordSlots][RecordSize]byte
}

func newRecordArea(buf *[PageSize]byte) recordArea {
	return recordArea{
		slots: (*[RecordSlots][RecordSize]byte)(unsafe.Pointer(&buf[recordAreaStart])),
	}
}

func (r recordArea) slot(o order) *[RecordSize]byte {
	return &r.slots[(recordOffset(o)-recordAreaStart)/RecordSize]
}

// write copies payload into the slot at o. Bytes past len(payload) are left
// as they are, so the slot must already be clear.
func (r recordArea) write(o order, payload []byte) error {
	if len(payload) > RecordSize {
		return &PayloadTooLargeError{Len: len(payload)}
	}
	copy(r.slot(o)[:], payload)
	return nil
}

func (r recordArea) read(o order) [RecordSize]byte {
	return *r.slot(o)
}

func (r recordArea) clear(o order) {
	clear(r.slot(o)[:])
}

func (r recordArea) isClear(o order) bool {
	return bytesIsZero(r.slot(o)[:])
}
