// Package em4100 implements the EM4100 frame validator of spec §4.4: it
// locates the header, extracts the 10 hex digit payload, and verifies
// row/column parity and the trailing stop bit.
package em4100

import (
	"errors"
	"fmt"

	"pharmatracker.io/manchester"
	"pharmatracker.io/segment"
)

// ErrRowParity is returned when a payload row's parity bit doesn't make
// the row's bit sum even.
var ErrRowParity = errors.New("em4100: odd row parity")

// ErrColumnParity is returned when a column sum across the 10 payload
// rows plus its trailing parity bit isn't even.
var ErrColumnParity = errors.New("em4100: odd column parity")

// ErrStopBit is returned when the trailing bit after column parity isn't 0.
var ErrStopBit = errors.New("em4100: stop bit not zero")

// headerOnes is the number of consecutive 1 bits that mark the EM4100
// header sync.
const headerOnes = 9

// Digits is the number of hex digits in a decoded tag id.
const Digits = 10

// bitSource is the subset of the Manchester reader the decoder needs.
type bitSource interface {
	First() (int, error)
	Next() (int, error)
}

// Decode reads one EM4100 frame from r, starting at the header search. On
// success it returns the 10 uppercase hex digit identifier. On any parity
// or stop-bit failure it returns an error and the caller should restart
// the attempt at the header, per spec §4.4 and §7 (DecodeFailed recovers
// internally, it never escalates further than this return).
func Decode(r bitSource) (id string, err error) {
	if err := syncHeader(r); err != nil {
		return "", err
	}

	var nibble [Digits]int
	var colParity [4]int
	for i := 0; i < Digits; i++ {
		value := 0
		rowParity := 0
		for j := 3; j >= 0; j-- {
			bit, err := r.Next()
			if err != nil {
				return "", err
			}
			value |= bit << uint(j)
			rowParity += bit
			colParity[j] += bit
		}
		parityBit, err := r.Next()
		if err != nil {
			return "", err
		}
		rowParity += parityBit
		if rowParity%2 != 0 {
			return "", ErrRowParity
		}
		nibble[i] = value
	}

	for j := 3; j >= 0; j-- {
		bit, err := r.Next()
		if err != nil {
			return "", err
		}
		colParity[j] += bit
		if colParity[j]%2 != 0 {
			return "", ErrColumnParity
		}
	}

	stop, err := r.Next()
	if err != nil {
		return "", err
	}
	if stop != 0 {
		return "", ErrStopBit
	}

	buf := make([]byte, Digits)
	for i, n := range nibble {
		buf[i] = formatHex(n)
	}
	return string(buf), nil
}

// syncHeader accumulates consecutive 1s, via Next, resetting the count to
// zero on any 0, until headerOnes consecutive 1s have been seen. The very
// first bit comes from First, which locates the initial bit boundary.
func syncHeader(r bitSource) error {
	bit, err := r.First()
	if err != nil {
		return err
	}
	ones := 0
	if bit == 1 {
		ones = 1
	}
	for ones < headerOnes {
		bit, err := r.Next()
		if err != nil {
			return err
		}
		if bit == 1 {
			ones++
		} else {
			ones = 0
		}
	}
	return nil
}

func formatHex(n int) byte {
	switch {
	case n >= 0 && n <= 9:
		return byte('0' + n)
	case n >= 10 && n <= 15:
		return byte('A' + n - 10)
	default:
		panic(fmt.Sprintf("em4100: nibble out of range: %d", n))
	}
}

// DecodeSamples runs Decode over a fresh segmenter/Manchester reader pair
// sourced from src, a convenience matching how the decoder firmware's
// main loop restarts a clean attempt after every failure.
func DecodeSamples(src segment.Sampler) (string, error) {
	seg := segment.New(src)
	return Decode(manchester.NewReader(seg))
}
