package smoldb

import "fmt"

// Page is one fixed-size slotted page. The zero value is not initialized;
// use NewPage or Reset.
type Page struct {
	buf [PageSize]byte
}

// Entry is an occupied directory entry.
type Entry struct {
	ID     uint8
	Order  int
	Offset int
}

func NewPage() *Page {
	p := new(Page)
	p.Reset()
	return p
}

// LoadPage copies b into a new page and checks its layout.
func LoadPage(b []byte) (*Page, error) {
	if len(b) != PageSize {
		return nil, corruptf("page size %d, want %d", len(b), PageSize)
	}
	p := new(Page)
	copy(p.buf[:], b)
	if err := p.Verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset zero-fills the page and marks it empty.
func (p *Page) Reset() {
	clear(p.buf[:])
	p.buf[posRecordCount] = 0
	p.buf[posNextOrder] = 0
	p.buf[posHasSpace] = 1
}

func (p *Page) dir() directory {
	return newDirectory(&p.buf)
}

func (p *Page) records() recordArea {
	return newRecordArea(&p.buf)
}

func (p *Page) RecordCount() int {
	return int(p.buf[posRecordCount])
}

func (p *Page) NextHintOrder() int {
	return int(p.buf[posNextOrder])
}

func (p *Page) HasSpace() bool {
	return p.buf[posHasSpace] != 0
}

// Bytes returns a copy of the raw page.
func (p *Page) Bytes() []byte {
	b := make([]byte, PageSize)
	copy(b, p.buf[:])
	return b
}

func (p *Page) Clone() *Page {
	c := *p
	return &c
}

// Insert stores payload under id in the lowest free slot.
func (p *Page) Insert(id uint8, payload []byte) error {
	if len(payload) > RecordSize {
		return &PayloadTooLargeError{Len: len(payload)}
	}
	if id == emptyIdentifier {
		return ErrReservedIdentifier
	}
	if !p.HasSpace() {
		return ErrPageFull
	}
	d := p.dir()
	if _, err := d.findOrder(id); err == nil {
		return fmt.Errorf("%w: %d", ErrDuplicateIdentifier, id)
	}
	o, err := d.findFreeOrder()
	if err != nil {
		return err
	}
	if err = p.records().write(o, payload); err != nil {
		return err
	}
	d.occupy(o, id, recordOffset(o))
	p.buf[posRecordCount]++
	p.refreshSpace()
	return nil
}

// Read returns the raw slot of id, zero padding included.
func (p *Page) Read(id uint8) (rec [RecordSize]byte, err error) {
	o, err := p.dir().findOrder(id)
	if err != nil {
		return
	}
	return p.records().read(o), nil
}

// OrderOf returns the order holding id.
func (p *Page) OrderOf(id uint8) (int, error) {
	o, err := p.dir().findOrder(id)
	return int(o), err
}

func (p *Page) Delete(id uint8) error {
	d := p.dir()
	o, err := d.findOrder(id)
	if err != nil {
		return err
	}
	p.records().clear(o)
	d.vacate(o)
	p.buf[posRecordCount]--
	p.refreshSpace()
	return nil
}

// FullScan is reserved and does nothing yet.
func (p *Page) FullScan() {}

// refreshSpace rescans the directory. Finding no free order is not an error
// here, it just means the page is now full.
func (p *Page) refreshSpace() {
	o, err := p.dir().findFreeOrder()
	if err != nil {
		p.buf[posNextOrder] = 0
		p.buf[posHasSpace] = 0
		return
	}
	p.buf[posNextOrder] = uint8(o)
	p.buf[posHasSpace] = 1
}

// Entries lists occupied directory entries by ascending order.
func (p *Page) Entries() []Entry {
	d := p.dir()
	res := make([]Entry, 0, p.RecordCount())
	for o := order(0); o < RecordSlots; o++ {
		e := d.entry(o)
		if e.occupied() {
			res = append(res, Entry{ID: e.id(), Order: int(o), Offset: int(e.recordOffset())})
		}
	}
	return res
}

// Verify checks the page against every layout invariant.
func (p *Page) Verify() error {
	d := p.dir()
	r := p.records()
	for o := order(RecordSlots); o < DirectoryEntries; o++ {
		if e := d.entry(o); e != (dirEntry{}) {
			return corruptf("directory order %s has no record slot but holds %v", o, e)
		}
	}
	var (
		seen      [256]bool
		occupied  int
		firstFree = order(-1)
	)
	for o := order(0); o < RecordSlots; o++ {
		e := d.entry(o)
		if !e.occupied() {
			if e.recordOffset() != 0 {
				return corruptf("free directory order %s has record offset %d", o, e.recordOffset())
			}
			if !r.isClear(o) {
				return corruptf("free record slot %s is not zero", o)
			}
			if firstFree < 0 {
				firstFree = o
			}
			continue
		}
		if int(e.recordOffset()) != recordOffset(o) {
			return corruptf("order %s points at offset %d, want %d", o, e.recordOffset(), recordOffset(o))
		}
		if seen[e.id()] {
			return corruptf("identifier %d appears twice", e.id())
		}
		seen[e.id()] = true
		occupied++
	}
	if p.RecordCount() != occupied {
		return corruptf("record count %d, directory holds %d", p.RecordCount(), occupied)
	}
	switch hasSpace := p.buf[posHasSpace]; {
	case hasSpace > 1:
		return corruptf("has space flag %d", hasSpace)
	case (hasSpace == 1) != (firstFree >= 0):
		return corruptf("has space flag %d with %d records", hasSpace, occupied)
	}
	wantHint := 0
	if firstFree >= 0 {
		wantHint = int(firstFree)
	}
	if p.NextHintOrder() != wantHint {
		return corruptf("next hint order %d, want %d", p.NextHintOrder(), wantHint)
	}
	return nil
}
