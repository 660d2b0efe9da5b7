package smoldb

import "unsafe"

type dirEntry [dirEntrySize]byte

func (e dirEntry) id() uint8 {
	return e[0]
}

func (e dirEntry) recordOffset() uint8 {
	return e[1]
}

func (e dirEntry) occupied() bool {
	return e[0] != emptyIdentifier
}

// directory is the slot directory arena. Entries grow from the high end of
// the region downward, so order 0 is the last element of the array.
type directory struct {
	entries *[DirectoryEntries]dirEntry
}

func newDirectory(buf *[PageSize]byte) directory {
	return directory{
		entries: (*[DirectoryEntries]dirEntry)(unsafe.Pointer(&buf[directoryStart])),
	}
}

func (d directory) at(o order) *dirEntry {
	return &d.entries[(directoryOffset(o)-directoryStart)/dirEntrySize]
}

func (d directory) entry(o order) dirEntry {
	return *d.at(o)
}

// findOrder returns the lowest order whose entry holds id. Orders without a
// record slot are never occupied and are not scanned.
func (d directory) findOrder(id uint8) (order, error) {
	if id != emptyIdentifier {
		for o := order(0); o < RecordSlots; o++ {
			if d.at(o).id() == id {
				return o, nil
			}
		}
	}
	return 0, &NoSuchRecordError{ID: id}
}

// findFreeOrder returns the lowest unoccupied order that has a record slot.
func (d directory) findFreeOrder() (order, error) {
	for o := order(0); o < RecordSlots; o++ {
		if !d.at(o).occupied() {
			return o, nil
		}
	}
	return 0, ErrPageFull
}

func (d directory) occupy(o order, id uint8, recordOff int) {
	e := d.at(o)
	e[0] = id
	e[1] = uint8(recordOff)
}

func (d directory) vacate(o order) {
	clear(d.at(o)[:])
}
