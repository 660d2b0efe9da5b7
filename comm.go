package smoldb

import (
	"fmt"
	"strconv"
)

// Page layout, low addresses first:
//
//	[0, 16)     reserved header
//	[16, 192)   record area, RecordSlots x RecordSize, order 0 first
//	[192, 240)  slot directory, DirectoryEntries x 2, order 0 last
//	[240, 253)  unused
//	[253, 256)  record count | next hint order | has space
const (
	PageSize         = 256
	RecordSize       = 8
	RecordSlots      = 22
	DirectoryEntries = 24

	reservedHeaderSize = 16
	dirEntrySize       = 2

	recordAreaStart = reservedHeaderSize
	recordAreaEnd   = recordAreaStart + RecordSize*RecordSlots
	directoryStart  = recordAreaEnd
	directoryEnd    = directoryStart + dirEntrySize*DirectoryEntries

	posRecordCount = PageSize - 3
	posNextOrder   = PageSize - 2
	posHasSpace    = PageSize - 1
)

// emptyIdentifier marks an unoccupied directory entry. It is never handed out.
const emptyIdentifier uint8 = 0

// the two arenas must not overlap and the directory must end before the trailer
var (
	_ [directoryStart - recordAreaEnd]struct{}
	_ [posRecordCount - directoryEnd]struct{}
	_ [DirectoryEntries - RecordSlots]struct{}
)

type order int

func (o order) valid(limit int) bool {
	return o >= 0 && int(o) < limit
}

func (o order) mustRecord() {
	if !o.valid(RecordSlots) {
		panic(fmt.Errorf("record order %d out of range [0,%d)", o, RecordSlots))
	}
}

func (o order) mustDirectory() {
	if !o.valid(DirectoryEntries) {
		panic(fmt.Errorf("directory order %d out of range [0,%d)", o, DirectoryEntries))
	}
}

// recordOffset is the absolute byte offset of the record slot at o.
func recordOffset(o order) int {
	o.mustRecord()
	return recordAreaStart + RecordSize*int(o)
}

// directoryOffset is the absolute byte offset of the directory entry at o.
// The identifier byte lives here, the record offset byte right after it.
func directoryOffset(o order) int {
	o.mustDirectory()
	return directoryEnd - dirEntrySize*(int(o)+1)
}

func (o order) String() string {
	return strconv.Itoa(int(o))
}
