// Package bytecode converts word streams to and from their flat binary
// encoding: one big-endian signed 64-bit integer per word, no header, no
// length prefix, no version field. Any change to the word width breaks
// every persisted program; that is an accepted property of the format.
package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// WordSize is the number of bytes one word occupies on disk.
const WordSize = 8

// ErrBadLength reports input whose byte length is not a multiple of the
// word size. Such input is never truncated or padded.
var ErrBadLength = errors.New("byte length is not a multiple of the word size")

// Encode writes each word big-endian. The result is exactly
// WordSize*len(words) bytes.
func Encode(words []int64) []byte {
	out := make([]byte, 0, len(words)*WordSize)
	for _, word := range words {
		out = binary.BigEndian.AppendUint64(out, uint64(word))
	}
	return out
}

// Decode is the exact inverse of Encode.
func Decode(data []byte) ([]int64, error) {
	if len(data)%WordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadLength, len(data))
	}

	words := make([]int64, 0, len(data)/WordSize)
	for i := 0; i < len(data); i += WordSize {
		words = append(words, int64(binary.BigEndian.Uint64(data[i:i+WordSize])))
	}
	return words, nil
}

// WriteFile encodes words and persists them at path.
func WriteFile(path string, words []int64) error {
	if err := os.WriteFile(path, Encode(words), 0o644); err != nil {
		return fmt.Errorf("write bytecode: %w", err)
	}
	return nil
}

// ReadFile restores a word stream persisted by WriteFile.
func ReadFile(path string) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bytecode: %w", err)
	}
	return Decode(data)
}
