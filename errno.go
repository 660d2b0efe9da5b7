package smoldb

import (
	"errors"
	"fmt"
)

var (
	ErrPageFull             = errors.New("page full")
	ErrNoSuchRecord         = errors.New("no such record")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrStorage              = errors.New("storage failure")
	ErrReservedIdentifier   = errors.New("identifier 0 is reserved")
	ErrDuplicateIdentifier  = errors.New("duplicate identifier")
	ErrIdentifiersExhausted = errors.New("identifiers exhausted, restart the page")
	ErrCorruptPage          = errors.New("corrupt page")
)

// NoSuchRecordError is returned when no directory entry holds ID.
type NoSuchRecordError struct {
	ID uint8
}

func (e *NoSuchRecordError) Error() string {
	return fmt.Sprintf("no such record: %d", e.ID)
}

func (e *NoSuchRecordError) Is(target error) bool {
	return target == ErrNoSuchRecord
}

// PayloadTooLargeError is returned when a payload does not fit a record slot.
type PayloadTooLargeError struct {
	Len int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: len == %d > RecordSize(%d)", e.Len, RecordSize)
}

func (e *PayloadTooLargeError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}

// StorageError wraps a failed read or write of the page file. The in-memory
// page must be considered untrusted until it is reloaded.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// CorruptPageError reports the first violated layout invariant.
type CorruptPageError struct {
	Reason string
}

func (e *CorruptPageError) Error() string {
	return "corrupt page: " + e.Reason
}

func (e *CorruptPageError) Is(target error) bool {
	return target == ErrCorruptPage
}

func corruptf(format string, args ...any) error {
	return &CorruptPageError{Reason: fmt.Sprintf(format, args...)}
}
