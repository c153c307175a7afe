package codec

import (
	"testing"

	"github.com/ffikit/ffikit/internal/ffi"
	"github.com/ffikit/ffikit/internal/wire"
	"github.com/stretchr/testify/require"
)

func fixturePayload(t *testing.T) []byte {
	t.Helper()
	data, err := wire.Encode(wire.Fixture(512))
	require.NoError(t, err)
	return data
}

// requireNoLeaks asserts that every allocation the boundary handed out has
// been released.
func requireNoLeaks(t *testing.T, b *ffi.InProc) {
	t.Helper()
	handles, buffers, errors := b.Live()
	require.Zero(t, handles, "leaked message handles")
	require.Zero(t, buffers, "leaked encoded buffers")
	require.Zero(t, errors, "leaked error strings")
}

// ==================== Round Trip ====================

func TestDecodeEncodeRoundTrip(t *testing.T) {
	boundary := ffi.NewInProc()
	payload := fixturePayload(t)

	msg, err := Decode(boundary, payload)
	require.NoError(t, err)
	defer msg.Release()

	encoded, err := msg.Encode()
	require.NoError(t, err)
	require.Len(t, encoded, len(payload))
	require.Equal(t, payload, encoded)
}

func TestDecodeIdempotent(t *testing.T) {
	boundary := ffi.NewInProc()
	payload := fixturePayload(t)

	a, err := Decode(boundary, payload)
	require.NoError(t, err)
	defer a.Release()
	b, err := Decode(boundary, payload)
	require.NoError(t, err)
	defer b.Release()

	encodedA, err := a.Encode()
	require.NoError(t, err)
	encodedB, err := b.Encode()
	require.NoError(t, err)
	require.Equal(t, encodedA, encodedB)
}

// ==================== Resource Ownership ====================

func TestEveryPathReleasesExactlyOnce(t *testing.T) {
	boundary := ffi.NewInProc()
	payload := fixturePayload(t)

	// Success path: decode, encode, release.
	msg, err := Decode(boundary, payload)
	require.NoError(t, err)
	_, err = msg.Encode()
	require.NoError(t, err)
	msg.Release()

	// Failure path: decode rejects, error string is freed internally.
	_, err = Decode(boundary, []byte("garbage"))
	require.Error(t, err)

	requireNoLeaks(t, boundary)

	freedHandles, freedBuffers, freedErrors := boundary.Freed()
	require.Equal(t, 1, freedHandles)
	require.Equal(t, 1, freedBuffers)
	require.Equal(t, 1, freedErrors)
}

func TestReleaseIsIdempotent(t *testing.T) {
	boundary := ffi.NewInProc()

	msg, err := Decode(boundary, fixturePayload(t))
	require.NoError(t, err)

	msg.Release()
	require.True(t, msg.Released())
	// Repeated host-level releases are no-ops, not boundary violations.
	msg.Release()
	msg.Release()

	freedHandles, _, _ := boundary.Freed()
	require.Equal(t, 1, freedHandles)
}

func TestEncodeAfterReleasePanics(t *testing.T) {
	boundary := ffi.NewInProc()

	msg, err := Decode(boundary, fixturePayload(t))
	require.NoError(t, err)
	msg.Release()

	require.Panics(t, func() { _, _ = msg.Encode() })
}

func TestManyDecodesNoLeak(t *testing.T) {
	boundary := ffi.NewInProc()
	payload := fixturePayload(t)

	for i := 0; i < 100; i++ {
		msg, err := Decode(boundary, payload)
		require.NoError(t, err)
		_, err = msg.Encode()
		require.NoError(t, err)
		msg.Release()
	}

	requireNoLeaks(t, boundary)
	freedHandles, freedBuffers, _ := boundary.Freed()
	require.Equal(t, 100, freedHandles)
	require.Equal(t, 100, freedBuffers)
}

// ==================== Error Surfacing ====================

func TestDecodeCorruptPayloads(t *testing.T) {
	boundary := ffi.NewInProc()
	valid := fixturePayload(t)

	cases := map[string][]byte{
		"empty":     {},
		"truncated": valid[:len(valid)/2],
		"flipped":   append([]byte{0xFF, 0xFF}, valid...),
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			msg, err := Decode(boundary, payload)
			require.Nil(t, msg)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			require.NotEmpty(t, decodeErr.Native)
		})
	}

	requireNoLeaks(t, boundary)
}

// encodeFailBoundary wraps InProc but fails every encode the way a native
// codec does: size 0 plus an owned error string.
type encodeFailBoundary struct {
	*ffi.InProc
}

func (b *encodeFailBoundary) MessageEncode(h ffi.Handle) (ffi.DataPtr, int, ffi.ErrPtr) {
	// Manufacture an owned error string through a failing decode so the
	// free-exactly-once accounting stays within InProc.
	_, e := b.InProc.MessageDecode([]byte("bad"))
	return 0, 0, e
}

func TestEncodeFailureSurfacesNativeError(t *testing.T) {
	boundary := &encodeFailBoundary{InProc: ffi.NewInProc()}

	msg, err := Decode(boundary, fixturePayload(t))
	require.NoError(t, err)
	defer msg.Release()

	out, err := msg.Encode()
	require.Nil(t, out)

	var encodeErr *EncodeError
	require.ErrorAs(t, err, &encodeErr)
	require.NotEmpty(t, encodeErr.Native)

	// The error string was freed; only the live handle remains.
	_, _, errors := boundary.Live()
	require.Zero(t, errors)
}

// nullErrorBoundary reports failure without an error string, the "NULL
// error out-param" case every binding must tolerate.
type nullErrorBoundary struct {
	*ffi.InProc
}

func (b *nullErrorBoundary) MessageDecode(data []byte) (ffi.Handle, ffi.ErrPtr) {
	return 0, 0
}

func TestDecodeFailureWithoutNativeMessage(t *testing.T) {
	boundary := &nullErrorBoundary{InProc: ffi.NewInProc()}

	_, err := Decode(boundary, fixturePayload(t))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "unknown error", decodeErr.Native)
}
