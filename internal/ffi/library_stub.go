//go:build !darwin && !linux && !freebsd

package ffi

import "fmt"

// Library is unavailable on platforms without dlopen support; use the
// in-process boundary instead.
type Library struct{}

func Open(path string) (*Library, error) {
	return nil, fmt.Errorf("open native codec %q: dynamic loading is not supported on this platform", path)
}

func (l *Library) Close() error { return nil }

func (l *Library) MessageDecode(data []byte) (Handle, ErrPtr) { return 0, 0 }

func (l *Library) MessageEncode(h Handle) (DataPtr, int, ErrPtr) { return 0, 0, 0 }

func (l *Library) MessageFree(h Handle) {}

func (l *Library) MessageFreeData(p DataPtr) {}

func (l *Library) MessageFreeError(e ErrPtr) {}

func (l *Library) ErrorString(e ErrPtr) string { return "" }

func (l *Library) CopyData(p DataPtr, size int) []byte { return nil }
