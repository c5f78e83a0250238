package pool

import "sync"

// stringSlicePool reuses the scratch slices the encoder sorts tag and field
// keys into; one slice is borrowed per rendered point.
var stringSlicePool = sync.Pool{
	New: func() any { return &[]string{} },
}

// GetStringSlice retrieves a string slice from the pool with length zero and
// capacity of at least size.
//
// The caller appends up to size elements and must call the returned cleanup
// function (typically with defer) to return the slice to the pool. The slice
// must not be retained past the cleanup call.
//
// Example:
//
//	keys, cleanup := pool.GetStringSlice(len(tags))
//	defer cleanup()
//	// Append and sort keys...
func GetStringSlice(size int) ([]string, func()) {
	ptr, _ := stringSlicePool.Get().(*[]string)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]string, 0, size)
		*ptr = slice
	}

	return slice, func() { stringSlicePool.Put(ptr) }
}
