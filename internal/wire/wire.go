// Package wire provides the little-endian byte-level primitives shared by
// the JSON column codec and its column registry: fixed-length reads,
// unsigned 8/64-bit integers, and length-prefixed ASCII strings as used by
// the ClickHouse native block protocol. Everything here is a thin wrapper
// over io.Reader/io.Writer; callers decide what a short read or write
// means for their own error taxonomy.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadU8 reads a single unsigned byte.
func ReadU8(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u8: %w", err)
	}
	return buf[0], nil
}

// ReadU64LE reads an unsigned 64-bit little-endian integer.
func ReadU64LE(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u64: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadFixed reads exactly n bytes and returns them. It is used for
// reserved/zero framing bytes, whose values callers never inspect.
func ReadFixed(r io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read %d fixed bytes: %w", n, err)
	}
	return buf, nil
}

// ReadStringU8Prefixed reads a one-byte length prefix followed by that many
// bytes of ASCII/UTF-8 text.
func ReadStringU8Prefixed(r io.Reader) (string, error) {
	n, err := ReadU8(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	return ReadStringFixedLen(r, int(n))
}

// ReadStringFixedLen reads exactly n bytes and returns them as a string.
func ReadStringFixedLen(r io.Reader, n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string of length %d: %w", n, err)
	}
	return string(buf), nil
}

// WriteU8 writes a single unsigned byte.
func WriteU8(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	if err != nil {
		return fmt.Errorf("write u8: %w", err)
	}
	return nil
}

// WriteU64LE writes an unsigned 64-bit little-endian integer.
func WriteU64LE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write u64: %w", err)
	}
	return nil
}

// WriteZeros writes n zero bytes, used for reserved framing.
func WriteZeros(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	if _, err := w.Write(make([]byte, n)); err != nil {
		return fmt.Errorf("write %d zero bytes: %w", n, err)
	}
	return nil
}

// WriteStringU8Prefixed writes a one-byte length prefix followed by s.
// It returns an error, writing nothing, when len(s) exceeds 255, the
// largest length a one-byte prefix can carry.
func WriteStringU8Prefixed(w io.Writer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("write string: length %d exceeds u8 prefix", len(s))
	}
	if err := WriteU8(w, byte(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write string body: %w", err)
	}
	return nil
}
