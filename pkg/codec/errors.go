package codec

import "fmt"

// unknownError stands in when the boundary reports failure without an
// error string, matching the behavior of the other language bindings.
const unknownError = "unknown error"

// DecodeError reports that the native codec rejected an input payload.
type DecodeError struct {
	// Native is the message produced by the codec, copied into Go memory.
	Native string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode message: %s", e.Native)
}

// EncodeError reports that the native codec could not serialize a message.
type EncodeError struct {
	Native string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode message: %s", e.Native)
}
