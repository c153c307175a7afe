// Package codec is the Go binding layer over the native codec boundary. It
// owns the translation from the C resource conventions (nullable handles,
// out-parameter buffers, caller-freed error strings) into Go values: every
// native allocation is copied into Go memory and released before a call
// returns, except the message handle itself, which Message carries until
// Release.
package codec

import (
	"github.com/ffikit/ffikit/internal/ffi"
)

// Message is a decoded message living in native-owned memory. It is the
// single owner of its handle: Release frees it exactly once, and any use
// after Release is a binding bug that panics rather than reaching the
// boundary with a dangling handle.
//
// Message is not safe for concurrent use.
type Message struct {
	abi    ffi.ABI
	handle ffi.Handle
}

// Decode decodes payload through the boundary. payload is only read for
// the duration of the call. On failure the native error string is copied
// and freed, and the returned error is a *DecodeError carrying it.
func Decode(abi ffi.ABI, payload []byte) (*Message, error) {
	handle, errPtr := abi.MessageDecode(payload)
	if handle == 0 {
		return nil, &DecodeError{Native: takeError(abi, errPtr)}
	}
	return &Message{abi: abi, handle: handle}, nil
}

// Encode serializes the message into a Go-owned byte slice. The native
// buffer is copied and freed before Encode returns; the returned slice has
// no ties to native memory.
func (m *Message) Encode() ([]byte, error) {
	if m.handle == 0 {
		panic("codec: Encode on released message")
	}
	dataPtr, size, errPtr := m.abi.MessageEncode(m.handle)
	if size == 0 {
		return nil, &EncodeError{Native: takeError(m.abi, errPtr)}
	}
	out := m.abi.CopyData(dataPtr, size)
	m.abi.MessageFreeData(dataPtr)
	return out, nil
}

// Release frees the underlying handle. Further Release calls are no-ops,
// so host code may release both explicitly and via defer.
func (m *Message) Release() {
	if m.handle == 0 {
		return
	}
	m.abi.MessageFree(m.handle)
	m.handle = 0
}

// Released reports whether the handle has been freed.
func (m *Message) Released() bool {
	return m.handle == 0
}

// takeError copies a native error string into Go memory and frees it. A
// zero pointer yields the conventional "unknown error" text and is never
// freed.
func takeError(abi ffi.ABI, errPtr ffi.ErrPtr) string {
	if errPtr == 0 {
		return unknownError
	}
	msg := abi.ErrorString(errPtr)
	abi.MessageFreeError(errPtr)
	if msg == "" {
		return unknownError
	}
	return msg
}
