//go:build darwin || linux || freebsd

package ffi

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Library is a dynamically loaded native codec implementing ABI. Open it
// once, pass it to whatever drives it, and Close it when done; there is no
// ambient process-wide library handle.
//
// A Library is not safe for concurrent use. Parallel benchmark workers must
// each Open their own copy.
type Library struct {
	handle uintptr

	closeOnce sync.Once

	messageDecode    func(data *byte, n uintptr, outErr *uintptr) uintptr
	messageEncode    func(h uintptr, outData *uintptr, outErr *uintptr) uintptr
	messageFree      func(h uintptr)
	messageFreeData  func(p uintptr)
	messageFreeError func(e uintptr)
}

// Open loads the native codec library at path and resolves the five
// boundary symbols.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("open native codec %q: %w", path, err)
	}
	lib := &Library{handle: handle}
	purego.RegisterLibFunc(&lib.messageDecode, handle, "message_decode")
	purego.RegisterLibFunc(&lib.messageEncode, handle, "message_encode")
	purego.RegisterLibFunc(&lib.messageFree, handle, "message_free")
	purego.RegisterLibFunc(&lib.messageFreeData, handle, "message_free_data")
	purego.RegisterLibFunc(&lib.messageFreeError, handle, "message_free_error")
	return lib, nil
}

// Close unloads the library. Safe to call more than once. No Handle,
// DataPtr, or ErrPtr obtained from this Library may be used afterwards.
func (l *Library) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = purego.Dlclose(l.handle)
	})
	return err
}

func (l *Library) MessageDecode(data []byte) (Handle, ErrPtr) {
	var errOut uintptr
	var p *byte
	if len(data) > 0 {
		p = &data[0]
	}
	h := l.messageDecode(p, uintptr(len(data)), &errOut)
	return Handle(h), ErrPtr(errOut)
}

func (l *Library) MessageEncode(h Handle) (DataPtr, int, ErrPtr) {
	var dataOut, errOut uintptr
	size := l.messageEncode(uintptr(h), &dataOut, &errOut)
	return DataPtr(dataOut), int(size), ErrPtr(errOut)
}

func (l *Library) MessageFree(h Handle) {
	l.messageFree(uintptr(h))
}

func (l *Library) MessageFreeData(p DataPtr) {
	l.messageFreeData(uintptr(p))
}

func (l *Library) MessageFreeError(e ErrPtr) {
	l.messageFreeError(uintptr(e))
}

// ErrorString copies the NUL-terminated native string behind e. Reading
// stops at the terminator; the native allocation is untouched.
func (l *Library) ErrorString(e ErrPtr) string {
	if e == 0 {
		return ""
	}
	return goString(uintptr(e))
}

// CopyData copies size bytes of native memory into a fresh Go slice.
func (l *Library) CopyData(p DataPtr, size int) []byte {
	if p == 0 || size <= 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(p))), size))
	return out
}

// goString reads a NUL-terminated C string into Go memory.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
