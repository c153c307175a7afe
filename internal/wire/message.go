package wire

import (
	"bytes"
	"fmt"
)

// Message is the fixed benchmark message every implementation encodes and
// decodes. Field order on the wire matches declaration order.
type Message struct {
	ID       int64
	Score    int32
	Flags    bool
	Username string
	Content  string
	Tags     []string
}

// Encode serializes m into a fresh byte slice.
func Encode(m *Message) ([]byte, error) {
	buf := new(bytes.Buffer)
	encodeInt64(buf, m.ID)
	encodeInt32(buf, m.Score)
	encodeBool(buf, m.Flags)
	if err := encodeString(buf, m.Username); err != nil {
		return nil, fmt.Errorf("encode username: %w", err)
	}
	if err := encodeString(buf, m.Content); err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	if err := encodeArrayHeader(buf, len(m.Tags)); err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	for i, tag := range m.Tags {
		if err := encodeString(buf, tag); err != nil {
			return nil, fmt.Errorf("encode tag %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Decode parses a Message from data. Truncated input and trailing bytes are
// both errors so corrupt fixtures never decode silently.
func Decode(data []byte) (*Message, error) {
	r := bytes.NewReader(data)
	m := &Message{}
	var err error
	if m.ID, err = decodeInt64(r); err != nil {
		return nil, fmt.Errorf("decode id: %w", err)
	}
	if m.Score, err = decodeInt32(r); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	if m.Flags, err = decodeBool(r); err != nil {
		return nil, fmt.Errorf("decode flags: %w", err)
	}
	if m.Username, err = decodeString(r); err != nil {
		return nil, fmt.Errorf("decode username: %w", err)
	}
	if m.Content, err = decodeString(r); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	count, err := decodeArrayHeader(r)
	if err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if count > 0 {
		m.Tags = make([]string, count)
		for i := 0; i < count; i++ {
			if m.Tags[i], err = decodeString(r); err != nil {
				return nil, fmt.Errorf("decode tag %d: %w", i, err)
			}
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("decode message: %d trailing bytes", r.Len())
	}
	return m, nil
}
