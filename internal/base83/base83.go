// Package base83 packs unsigned integers into fixed-width strings drawn
// from the 83-character BlurHash alphabet.
package base83

import (
	"errors"
	"fmt"
)

// Alphabet is the digit set, lowest value first.  Order is part of the
// wire format.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

// ErrInvalidCharacter is returned by Decode for a byte outside Alphabet.
var ErrInvalidCharacter = errors.New("base83: invalid character")

// digitValue maps a byte to its digit value, or -1.  Filled once at init.
var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digitValue[Alphabet[i]] = int8(i)
	}
}

// Encode returns value as exactly length digits, most significant first.
// The caller guarantees 0 <= value < 83^length.
func Encode(value, length int) string {
	return string(AppendEncode(make([]byte, 0, length), value, length))
}

// AppendEncode appends the length-digit encoding of value to dst.
func AppendEncode(dst []byte, value, length int) []byte {
	n := len(dst)
	for i := 0; i < length; i++ {
		dst = append(dst, 0)
	}
	digits := dst[n:]
	for i := length - 1; i >= 0; i-- {
		digits[i] = Alphabet[value%83]
		value /= 83
	}
	return dst
}

// IndexInvalid returns the offset of the first byte of s outside
// Alphabet, or -1.
func IndexInvalid(s string) int {
	for i := 0; i < len(s); i++ {
		if digitValue[s[i]] < 0 {
			return i
		}
	}
	return -1
}

// Decode folds s left to right into an integer.
func Decode(s string) (int, error) {
	if i := IndexInvalid(s); i >= 0 {
		return 0, fmt.Errorf("%w %q at offset %d", ErrInvalidCharacter, s[i], i)
	}
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*83 + int(digitValue[s[i]])
	}
	return v, nil
}
