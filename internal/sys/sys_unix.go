//go:build unix

package sys

import (
	"golang.org/x/sys/unix"
	"os"
)

// MMap maps the first length bytes of file read-write and shared, so stores
// into dat reach the file without an explicit write.
func MMap(file *os.File, length uint64) (dat []byte, err error) {
	dat, err = unix.Mmap(int(file.Fd()), 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	return
}

func MUnmap(file *os.File, dat []byte) (err error) {
	if len(dat) == 0 {
		return nil
	}
	return unix.Munmap(dat)
}

func GetSysPageSize() int {
	return unix.Getpagesize()
}

// OpenFile opens path read-write, creating it if needed.
func OpenFile(path string) (file *os.File, err error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_CLOEXEC, 0644)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}
