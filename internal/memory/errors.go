package memory

import "fmt"

// StoreUnavailableError indicates the backing file could not be read or
// written. The store performs no retries; the caller decides what to do.
type StoreUnavailableError struct {
	Path string
	Err  error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("memory store unavailable at %s: %v", e.Path, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// StoreCorruptError indicates the backing file exists but does not parse
// into the expected structure. A corrupt store is never reinitialized (that
// would silently destroy history); it is fatal for store operations until
// resolved externally.
type StoreCorruptError struct {
	Path string
	Err  error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("memory store corrupt at %s: %v", e.Path, e.Err)
}

func (e *StoreCorruptError) Unwrap() error { return e.Err }
