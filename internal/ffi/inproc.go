package ffi

import (
	"fmt"
	"sync"

	"github.com/ffikit/ffikit/internal/wire"
)

// InProc is a pure-Go boundary implementing ABI against the wire codec in
// this repository. It provides the "go" implementation identity when no
// shared library is available and reproduces the native ownership contract:
// handles, buffers, and error strings are opaque tokens that must be freed
// exactly once, and any violation panics instead of corrupting memory.
type InProc struct {
	mu    sync.Mutex
	next  uintptr
	msgs  map[Handle]*wire.Message
	bufs  map[DataPtr][]byte
	errs  map[ErrPtr]string
	freed freeCounts
}

// freeCounts tracks allocation/release pairs for leak assertions in tests.
type freeCounts struct {
	handles, buffers, errors int
}

// NewInProc returns an empty in-process boundary.
func NewInProc() *InProc {
	return &InProc{
		next: 1,
		msgs: make(map[Handle]*wire.Message),
		bufs: make(map[DataPtr][]byte),
		errs: make(map[ErrPtr]string),
	}
}

func (b *InProc) token() uintptr {
	t := b.next
	b.next++
	return t
}

func (b *InProc) MessageDecode(data []byte) (Handle, ErrPtr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg, err := wire.Decode(data)
	if err != nil {
		e := ErrPtr(b.token())
		b.errs[e] = err.Error()
		return 0, e
	}
	h := Handle(b.token())
	b.msgs[h] = msg
	return h, 0
}

func (b *InProc) MessageEncode(h Handle) (DataPtr, int, ErrPtr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg, ok := b.msgs[h]
	if !ok {
		panic(fmt.Sprintf("ffi: encode of invalid or freed handle %#x", uintptr(h)))
	}
	data, err := wire.Encode(msg)
	if err != nil {
		e := ErrPtr(b.token())
		b.errs[e] = err.Error()
		return 0, 0, e
	}
	p := DataPtr(b.token())
	b.bufs[p] = data
	return p, len(data), 0
}

func (b *InProc) MessageFree(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.msgs[h]; !ok {
		panic(fmt.Sprintf("ffi: double free or invalid handle %#x", uintptr(h)))
	}
	delete(b.msgs, h)
	b.freed.handles++
}

func (b *InProc) MessageFreeData(p DataPtr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.bufs[p]; !ok {
		panic(fmt.Sprintf("ffi: double free or invalid data pointer %#x", uintptr(p)))
	}
	delete(b.bufs, p)
	b.freed.buffers++
}

func (b *InProc) MessageFreeError(e ErrPtr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.errs[e]; !ok {
		panic(fmt.Sprintf("ffi: double free or invalid error pointer %#x", uintptr(e)))
	}
	delete(b.errs, e)
	b.freed.errors++
}

func (b *InProc) ErrorString(e ErrPtr) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errs[e]
}

func (b *InProc) CopyData(p DataPtr, size int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.bufs[p]
	if !ok {
		panic(fmt.Sprintf("ffi: read of invalid or freed data pointer %#x", uintptr(p)))
	}
	if size > len(buf) {
		panic(fmt.Sprintf("ffi: read of %d bytes past buffer of %d", size, len(buf)))
	}
	out := make([]byte, size)
	copy(out, buf[:size])
	return out
}

// Live reports outstanding allocations: decoded messages, encoded buffers,
// and error strings not yet freed.
func (b *InProc) Live() (handles, buffers, errors int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs), len(b.bufs), len(b.errs)
}

// Freed reports how many of each resource have been released.
func (b *InProc) Freed() (handles, buffers, errors int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.freed.handles, b.freed.buffers, b.freed.errors
}
