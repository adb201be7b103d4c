package codec

import (
	"fmt"
	"io"

	"github.com/chprotocol/chjson/internal/wire"
)

// The read* helpers below wrap internal/wire's primitives and translate
// any short read into ErrTruncatedInput, so the rest of this package only
// ever has to handle one read-side error kind. Write helpers pass wire's
// errors through unwrapped; a write failure is the caller's sink
// misbehaving, not a codec-level condition with its own taxonomy.

func readU8(r io.Reader) (byte, error) {
	b, err := wire.ReadU8(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return b, nil
}

func readU64(r io.Reader) (uint64, error) {
	v, err := wire.ReadU64LE(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return v, nil
}

func readFixed(r io.Reader, n int) ([]byte, error) {
	b, err := wire.ReadFixed(r, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return b, nil
}

func readStringPrefixed(r io.Reader) (string, error) {
	s, err := wire.ReadStringU8Prefixed(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return s, nil
}

func readStringFixedLen(r io.Reader, n int) (string, error) {
	s, err := wire.ReadStringFixedLen(r, n)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return s, nil
}

func writeU8(w io.Writer, v byte) error {
	return wire.WriteU8(w, v)
}

func writeU64(w io.Writer, v uint64) error {
	return wire.WriteU64LE(w, v)
}

func writeZeros(w io.Writer, n int) error {
	return wire.WriteZeros(w, n)
}

func writeStringPrefixed(w io.Writer, s string) error {
	return wire.WriteStringU8Prefixed(w, s)
}
