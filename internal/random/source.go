// Package random provides the cryptographic entropy source used for dice
// rolls.
//
// Callers receive the source as an io.Reader so tests can substitute a
// deterministic stream. There is no fallback to a pseudo-random generator:
// when the cryptographic source fails, the caller gets the error.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// uint32Size is the number of bytes consumed per drawn value.
const uint32Size = 4

// ErrNilSource indicates no entropy source was provided.
var ErrNilSource = errors.New("entropy source is required")

// Reader returns the process-wide cryptographic random source.
func Reader() io.Reader {
	return crand.Reader
}

// Uint32s draws n unsigned 32-bit values from src in a single read of 4*n
// bytes, decoded little-endian. n <= 0 returns an empty slice without reading.
func Uint32s(src io.Reader, n int) ([]uint32, error) {
	if n <= 0 {
		return []uint32{}, nil
	}
	if src == nil {
		return nil, ErrNilSource
	}

	buf := make([]byte, n*uint32Size)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("read %d random bytes: %w", len(buf), err)
	}

	values := make([]uint32, n)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(buf[i*uint32Size:])
	}
	return values, nil
}

// Probe reads one value from src to confirm it is usable.
func Probe(src io.Reader) error {
	if _, err := Uint32s(src, 1); err != nil {
		return fmt.Errorf("probe entropy source: %w", err)
	}
	return nil
}
