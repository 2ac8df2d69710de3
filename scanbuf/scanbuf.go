// Package scanbuf implements the Scan Buffer of spec §4.5: a single-slot
// mailbox between the UART byte stream arriving from the EM4100 reader
// board and the Tag Controller, mirroring the reference firmware's
// USART0_RX_vect ISR and its ID_str/index/locked fields.
package scanbuf

import "fmt"

// FrameSize is the number of bytes in one framed scan: a leading LF, the
// 10 hex digit identifier, and a trailing CR.
const FrameSize = 12

// Digits is the number of hex digits in the framed identifier.
const Digits = 10

const (
	frameStart byte = 0x0A // LF
	frameEnd   byte = 0x0D // CR
)

// Buffer is the single-slot mailbox: Feed is the producer, called once per
// byte as it arrives on the UART; Borrow/Release are the consumer side.
// Feed and Borrow/Release are safe to call from different goroutines
// standing in for the ISR and foreground contexts of the reference
// firmware, but Buffer itself does no internal locking beyond the locked
// flag — exactly one producer and one consumer, per spec §4.5.
type Buffer struct {
	raw    [FrameSize]byte
	index  int
	locked bool
}

// New returns an empty, unlocked Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Feed processes one byte arriving from the reader UART. While the buffer
// is locked (a complete scan is waiting to be consumed) bytes are
// dropped, matching the ISR's `if (locked) return`. A malformed frame —
// wrong byte at the start or end position — resets the index rather than
// locking, discarding the partial frame.
func (b *Buffer) Feed(c byte) {
	if b.locked {
		return
	}
	if (b.index == 0 && c != frameStart) || (b.index == FrameSize-1 && c != frameEnd) {
		b.index = 0
		return
	}
	b.raw[b.index] = c
	b.index++
	if b.index >= FrameSize {
		b.index = 0
		b.raw[0] = 0
		b.raw[FrameSize-1] = 0
		b.locked = true
	}
}

// IsReady reports whether a complete scan is waiting to be consumed.
func (b *Buffer) IsReady() bool {
	return b.locked
}

// Borrow returns the 10 hex digit identifier of the waiting scan. It must
// only be called while IsReady returns true; the caller must call Release
// once it is done with the value, before the buffer will accept the next
// scan.
func (b *Buffer) Borrow() (string, error) {
	if !b.locked {
		return "", fmt.Errorf("scanbuf: borrow called with no scan ready")
	}
	return string(b.raw[1 : 1+Digits]), nil
}

// Release unlocks the buffer, allowing Feed to resume accepting bytes for
// the next scan.
func (b *Buffer) Release() {
	b.locked = false
}
