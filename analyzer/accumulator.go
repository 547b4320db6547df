/*
NAME
  accumulator.go - buffers one elementary stream's payload between PUSIs.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package analyzer

// videoDataIncrement is the fixed growth increment applied to the
// elementary accumulator's backing buffer when it runs out of room,
// matching VIDEO_DATA_MEMORY_INCREMENT in original_source/mpts_parser.cpp.
const videoDataIncrement = 500 * 1024

// ElementaryAccumulator collects PES payload bytes for one elementary
// stream between successive payload_unit_start_indicator packets. It
// grows its backing array in fixed increments rather than doubling, so
// that a long run of packets for the same frame does not repeatedly
// reallocate.
type ElementaryAccumulator struct {
	buf []byte
}

// NewElementaryAccumulator returns an empty accumulator.
func NewElementaryAccumulator() *ElementaryAccumulator {
	return &ElementaryAccumulator{buf: make([]byte, 0, videoDataIncrement)}
}

// Push appends b to the accumulator, growing the backing array by
// videoDataIncrement-sized steps if b does not fit in the current
// capacity.
func (a *ElementaryAccumulator) Push(b []byte) {
	if len(a.buf)+len(b) > cap(a.buf) {
		grown := make([]byte, len(a.buf), cap(a.buf)+videoDataIncrement)
		copy(grown, a.buf)
		a.buf = grown
	}
	a.buf = append(a.buf, b...)
}

// Bytes returns the accumulated bytes.
func (a *ElementaryAccumulator) Bytes() []byte { return a.buf }

// Len returns the number of accumulated bytes.
func (a *ElementaryAccumulator) Len() int { return len(a.buf) }

// Reset empties the accumulator without releasing its backing array,
// ready to accumulate the next frame.
func (a *ElementaryAccumulator) Reset() {
	a.buf = a.buf[:0]
}

// Compact discards the first n consumed bytes, shifting any remainder
// to the start of the buffer. It mirrors compactVideoData in
// original_source/mpts_parser.cpp.
func (a *ElementaryAccumulator) Compact(n int) {
	if n >= len(a.buf) {
		a.Reset()
		return
	}
	copy(a.buf, a.buf[n:])
	a.buf = a.buf[:len(a.buf)-n]
}
