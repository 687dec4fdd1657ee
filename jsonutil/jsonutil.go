// Package jsonutil provides thin wrappers around sonic for
// performance-sensitive JSON encoding and decoding. The wrappers keep the
// standard library's encoding semantics so callers can swap them in without
// behavioural surprises.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

var cfg = sonic.ConfigStd

// Marshal serialises v into a compact JSON document.
func Marshal(v any) ([]byte, error) {
	return cfg.Marshal(v)
}

// MarshalIndent serialises v with the supplied prefix and indentation.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return cfg.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses data into the value pointed to by v.
func Unmarshal(data []byte, v any) error {
	return cfg.Unmarshal(data, v)
}

// Encode streams v into w as a single JSON document followed by a newline.
func Encode(w io.Writer, v any) error {
	return cfg.NewEncoder(w).Encode(v)
}

// Decode parses a single JSON document from r into v.
func Decode(r io.Reader, v any) error {
	return cfg.NewDecoder(r).Decode(v)
}
