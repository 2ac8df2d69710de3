package em4100

import (
	"fmt"
)

// Encode builds an oversampled Manchester/EM4100 sample stream for id (10
// uppercase hex digits), suitable for feeding back through Decode via a
// manchester.Reader. halfBit is the number of samples per Manchester
// half-bit; it must agree with the Tolerance the reader will use to tell
// a half-bit run from a full-bit run (halfBit <= Tolerance < 2*halfBit).
//
// The encoding convention is standard Manchester: a bit's first half is
// the complement of its value, its second half is its value, so a
// transition always falls in the middle of the bit. One synthetic 0 bit
// is prepended ahead of the header, standing in for the stop bit of the
// previous frame on a continuously-repeating tag signal; this guarantees
// the decoder's phase-locking First() call has a full-bit run to find,
// exactly as it would on a real antenna that has been running for a
// while before the decoder starts listening.
func Encode(id string, halfBit int) ([]int, error) {
	bits, err := frameBits(id)
	if err != nil {
		return nil, err
	}
	// Synthetic predecessor stop bit.
	bits = append([]int{0}, bits...)

	samples := make([]int, 0, len(bits)*2*halfBit)
	for _, b := range bits {
		for i := 0; i < halfBit; i++ {
			samples = append(samples, b^1)
		}
		for i := 0; i < halfBit; i++ {
			samples = append(samples, b)
		}
	}
	return samples, nil
}

// frameBits returns the logical bit sequence of a well-formed frame for
// id, in transmission order: 9 header 1s, then for each of the 10 hex
// digits 4 data bits (MSB first) and a row parity bit, then 4 column
// parity bits, then a 0 stop bit.
func frameBits(id string) ([]int, error) {
	if len(id) != Digits {
		return nil, fmt.Errorf("em4100: id must be %d hex digits, got %q", Digits, id)
	}
	bits := make([]int, 0, headerOnes+Digits*5+4+1)
	for i := 0; i < headerOnes; i++ {
		bits = append(bits, 1)
	}
	var colParity [4]int
	for _, c := range []byte(id) {
		n, err := parseHex(c)
		if err != nil {
			return nil, err
		}
		row := 0
		for j := 3; j >= 0; j-- {
			bit := (n >> uint(j)) & 1
			bits = append(bits, bit)
			row += bit
			colParity[j] += bit
		}
		bits = append(bits, row%2)
	}
	for j := 3; j >= 0; j-- {
		bits = append(bits, colParity[j]%2)
	}
	bits = append(bits, 0) // stop bit
	return bits, nil
}

func parseHex(c byte) (int, error) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), nil
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, nil
	default:
		return 0, fmt.Errorf("em4100: invalid hex digit %q", c)
	}
}
