package cache

import (
	"errors"
	"fmt"
)

// Error kinds returned by Cache. Match with errors.Is.
var (
	ErrStatFailed        = errors.New("failed to stat cache file")
	ErrElapsedFailed     = errors.New("failed to calculate age of cache file")
	ErrReadFailed        = errors.New("failed to read cache file")
	ErrDeserializeFailed = errors.New("failed to deserialize credentials from cache file")
	ErrCreateDirFailed   = errors.New("failed to create cache directory")
	ErrSerializeFailed   = errors.New("failed to serialize credentials")
	ErrWriteFailed       = errors.New("failed to write cache file")
	ErrDeleteFailed      = errors.New("failed to delete cache file")
)

// Error describes a failed cache operation on Path.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at %q: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }
