package wire

import "strings"

// fixtureTags mirror the tag mix used by the cross-language fixtures so every
// binding benchmarks the same shape of payload.
var fixtureTags = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}

// Fixture builds a deterministic benchmark message whose encoded size is
// approximately targetSize bytes. The fixed fields cost a few dozen bytes;
// the remainder is padded into Content, so targetSize below the fixed
// overhead yields the smallest representable message.
func Fixture(targetSize int) *Message {
	m := &Message{
		ID:       42,
		Score:    300,
		Flags:    true,
		Username: "alice",
		Tags:     fixtureTags,
	}
	base, _ := Encode(m)
	pad := targetSize - len(base)
	if pad < 0 {
		pad = 0
	}
	if pad > MaxLen {
		pad = MaxLen
	}
	m.Content = strings.Repeat("hello world ", pad/12+1)[:pad]
	return m
}
