// Package wire implements the benchmark message wire format: little-endian
// primitives with uint16 string and array lengths. It backs the in-process
// codec boundary and fixture generation; the native library owns the
// authoritative schema.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxLen is the largest string or array length the format can carry.
// Lengths are uint16 on the wire, so overflow is impossible by construction.
const MaxLen = 1<<16 - 1

func encodeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(0x01)
	} else {
		buf.WriteByte(0x00)
	}
}

func encodeInt32(buf *bytes.Buffer, v int32) {
	binary.Write(buf, binary.LittleEndian, v)
}

func encodeInt64(buf *bytes.Buffer, v int64) {
	binary.Write(buf, binary.LittleEndian, v)
}

// encodeString writes [uint16_le byte_length][utf8 bytes], no terminator.
func encodeString(buf *bytes.Buffer, s string) error {
	if len(s) > MaxLen {
		return fmt.Errorf("string length %d exceeds wire maximum %d", len(s), MaxLen)
	}
	binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
	return nil
}

func encodeArrayHeader(buf *bytes.Buffer, count int) error {
	if count > MaxLen {
		return fmt.Errorf("array length %d exceeds wire maximum %d", count, MaxLen)
	}
	binary.Write(buf, binary.LittleEndian, uint16(count))
	return nil
}

func decodeBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, fmt.Errorf("decode bool: %w", err)
	}
	return b[0] != 0x00, nil
}

func decodeInt32(r io.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, fmt.Errorf("decode int32: %w", err)
	}
	return v, nil
}

func decodeInt64(r io.Reader) (int64, error) {
	var v int64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, fmt.Errorf("decode int64: %w", err)
	}
	return v, nil
}

func decodeString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("decode string length: %w", err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("decode string body (%d bytes): %w", n, err)
	}
	return string(b), nil
}

func decodeArrayHeader(r io.Reader) (int, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("decode array length: %w", err)
	}
	return int(n), nil
}
