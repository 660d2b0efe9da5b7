//go:build windows

package sys

import (
	"golang.org/x/sys/windows"
	"os"
	"unsafe"
)

// Windows API constants not defined in golang.org/x/sys/windows
const (
	FILE_MAP_ALL_ACCESS = 0x000F001F
)

// SYSTEM_INFO defines the Windows SYSTEM_INFO structure.
type SYSTEM_INFO struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

var getSystemInfoProc = windows.NewLazySystemDLL("kernel32").NewProc("GetSystemInfo")

// GetSystemInfo retrieves system information.
func GetSystemInfo() (si SYSTEM_INFO, err error) {
	r1, _, err := getSystemInfoProc.Call(uintptr(unsafe.Pointer(&si)))
	if r1 == 0 {
		return si, err
	}
	return si, nil
}

// MMap maps the first length bytes of file with read and write access.
func MMap(file *os.File, length uint64) (dat []byte, err error) {
	hFile := windows.Handle(file.Fd())
	hMap, err := windows.CreateFileMapping(
		hFile,
		nil,
		windows.PAGE_READWRITE,
		uint32(length>>32),
		uint32(length),
		nil,
	)
	if err != nil {
		return nil, err
	}
	addr, err := windows.MapViewOfFile(hMap, FILE_MAP_ALL_ACCESS, 0, 0, uintptr(length))
	if err != nil {
		windows.CloseHandle(hMap)
		return nil, err
	}
	dat = unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
	// the view keeps the mapping alive
	windows.CloseHandle(hMap)
	return dat, nil
}

// MUnmap unmaps the view returned by MMap.
func MUnmap(file *os.File, dat []byte) (err error) {
	if len(dat) == 0 {
		return nil
	}
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&dat[0])))
}

// GetSysPageSize returns the system's memory page size.
func GetSysPageSize() int {
	si, err := GetSystemInfo()
	if err != nil {
		return 4096
	}
	return int(si.PageSize)
}

// OpenFile opens path read-write, creating it if needed. The page is written
// in units smaller than a sector, so buffering stays on.
func OpenFile(path string) (file *os.File, err error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_ALWAYS,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(handle), path), nil
}
