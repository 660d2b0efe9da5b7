package smoldb

import (
	"fmt"
	"github.com/nyan233/smoldb/internal/sys"
	"io"
	"os"
)

// pageStorage persists exactly one page. store always overwrites the whole
// page; there is no rename, fsync or journal, so a crash during store can
// leave a torn page behind.
type pageStorage interface {
	// init opens the backing file and reports whether it was empty.
	init() (fresh bool, err error)
	load(dst *[PageSize]byte) error
	store(src *[PageSize]byte) error
	close() error
}

func newPageStorage(path string, useMMap bool) pageStorage {
	if useMMap {
		return newMMapPageStorage(path)
	}
	return newFilePageStorage(path)
}

// openPageFile opens path and checks that it is either empty or exactly one page.
func openPageFile(path string) (file *os.File, fresh bool, err error) {
	file, err = sys.OpenFile(path)
	if err != nil {
		return nil, false, &StorageError{Op: "open", Path: path, Err: err}
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, false, &StorageError{Op: "stat", Path: path, Err: err}
	}
	switch stat.Size() {
	case 0:
		return file, true, nil
	case PageSize:
		return file, false, nil
	default:
		_ = file.Close()
		return nil, false, corruptf("file %s is %d bytes, want %d", path, stat.Size(), PageSize)
	}
}

type filePageStorage struct {
	path string
	file *os.File
}

func newFilePageStorage(path string) *filePageStorage {
	return &filePageStorage{
		path: path,
	}
}

func (f *filePageStorage) init() (fresh bool, err error) {
	f.file, fresh, err = openPageFile(f.path)
	return
}

func (f *filePageStorage) load(dst *[PageSize]byte) error {
	n, err := f.file.ReadAt(dst[:], 0)
	if err == nil && n != PageSize {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return &StorageError{Op: "read", Path: f.path, Err: err}
	}
	return nil
}

func (f *filePageStorage) store(src *[PageSize]byte) error {
	n, err := f.file.WriteAt(src[:], 0)
	if err == nil && n != PageSize {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

func (f *filePageStorage) close() (err error) {
	if f.file == nil {
		return nil
	}
	err = f.file.Close()
	f.file = nil
	if err != nil {
		return &StorageError{Op: "close", Path: f.path, Err: err}
	}
	return nil
}

// mmapPageStorage keeps the page file mapped shared; store is a copy into
// the mapping and the kernel writes it back.
type mmapPageStorage struct {
	path string
	file *os.File
	dat  []byte
}

func newMMapPageStorage(path string) *mmapPageStorage {
	return &mmapPageStorage{
		path: path,
	}
}

func (m *mmapPageStorage) init() (fresh bool, err error) {
	if sysPageSize := sys.GetSysPageSize(); sysPageSize < PageSize {
		return false, fmt.Errorf("sysPageSize(%d) < PageSize(%d)", sysPageSize, PageSize)
	}
	m.file, fresh, err = openPageFile(m.path)
	if err != nil {
		return
	}
	if fresh {
		if err = m.file.Truncate(PageSize); err != nil {
			_ = m.file.Close()
			return false, &StorageError{Op: "truncate", Path: m.path, Err: err}
		}
	}
	m.dat, err = sys.MMap(m.file, PageSize)
	if err != nil {
		_ = m.file.Close()
		return false, &StorageError{Op: "mmap", Path: m.path, Err: err}
	}
	return
}

func (m *mmapPageStorage) load(dst *[PageSize]byte) error {
	if len(m.dat) != PageSize {
		return &StorageError{Op: "read", Path: m.path, Err: os.ErrClosed}
	}
	copy(dst[:], m.dat)
	return nil
}

func (m *mmapPageStorage) store(src *[PageSize]byte) error {
	if len(m.dat) != PageSize {
		return &StorageError{Op: "write", Path: m.path, Err: os.ErrClosed}
	}
	copy(m.dat, src[:])
	return nil
}

func (m *mmapPageStorage) close() (err error) {
	if m.file == nil {
		return nil
	}
	err = sys.MUnmap(m.file, m.dat)
	m.dat = nil
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	m.file = nil
	if err != nil {
		return &StorageError{Op: "close", Path: m.path, Err: err}
	}
	return nil
}
