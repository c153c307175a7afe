// Package ffi binds the native codec's C ABI. It is the only package that
// holds or dereferences native handles, buffers, and error strings; callers
// see opaque tokens and Go-owned copies.
//
// The bound surface is:
//
//	message_decode(data, len, out_error) -> handle (NULL = failure)
//	message_encode(handle, out_data, out_error) -> size (0 = failure)
//	message_free(handle)
//	message_free_data(ptr)
//	message_free_error(ptr)
//
// Ownership rules: a non-NULL handle, data pointer, or error pointer is
// owned by the caller from the moment it is returned and must be passed to
// the matching free function exactly once. Freeing twice, or freeing a
// value that was never returned, is a programming error with undefined
// behavior on a real library; the in-process boundary turns it into a panic
// so binding bugs surface during tests.
package ffi

// Handle is an opaque reference to a decoded message in native-owned
// memory. The zero value means "no message" (decode failure).
type Handle uintptr

// DataPtr is an opaque reference to a native-owned encoded buffer.
type DataPtr uintptr

// ErrPtr is an opaque reference to a native-owned error string. The zero
// value means "no error" and must never be freed.
type ErrPtr uintptr

// ABI is the boundary surface the binding layer calls. Implementations are
// the dynamically loaded native library and the in-process Go boundary.
// Implementations are not required to be safe for concurrent use.
type ABI interface {
	// MessageDecode decodes data. On success the handle is non-zero and
	// the error pointer is zero; on failure the handle is zero and the
	// error pointer, if non-zero, must be read and freed by the caller.
	// data must stay pinned for the duration of the call; the boundary
	// does not retain it.
	MessageDecode(data []byte) (Handle, ErrPtr)

	// MessageEncode serializes the message behind h into a native-owned
	// buffer. A zero size signals failure; otherwise the caller owns
	// exactly size bytes behind the returned data pointer.
	MessageEncode(h Handle) (DataPtr, int, ErrPtr)

	// MessageFree releases a decoded message. Valid exactly once per
	// non-zero handle.
	MessageFree(h Handle)

	// MessageFreeData releases an encoded buffer. Valid exactly once per
	// non-zero data pointer.
	MessageFreeData(p DataPtr)

	// MessageFreeError releases an error string. Valid exactly once per
	// non-zero error pointer.
	MessageFreeError(e ErrPtr)

	// ErrorString copies the error string behind e into Go memory. It
	// does not free e.
	ErrorString(e ErrPtr) string

	// CopyData copies exactly size bytes behind p into Go memory. It
	// does not free p.
	CopyData(p DataPtr, size int) []byte
}
