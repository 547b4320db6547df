/*
NAME
  state.go - per-run mutable state threaded through packet dispatch.

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

import (
	"github.com/ausocean/av/codec/h264/h264dec"
	"github.com/ausocean/av/codec/mpeg2video"
)

// PID values with a fixed meaning, Table 2-3.
const (
	pidPAT  uint16 = 0x0000
	pidNull uint16 = 0x1fff
)

// PidContribution is one contiguous run of packets, for a single PID,
// that contributed bytes to a FrameRecord's accumulator. A FrameRecord
// normally has one contribution (the PID does not change mid-frame),
// but a slice list with more than one entry signals a PID change
// without an intervening payload_unit_start_indicator.
type PidContribution struct {
	Name       string
	NumPackets int
	StartPos   int64
}

// FrameRecord describes one elementary-stream access unit (an MPEG-2
// picture or an H.264 slice/AUD) recovered from the packets between two
// payload_unit_start_indicator boundaries on the same PID.
type FrameRecord struct {
	Number int
	PID    uint16
	Name   string

	Contributions []PidContribution

	PTS, DTS  uint64
	HasPTS    bool
	HasDTS    bool
	Type      string // "I", "P", "B", ...
	ClosedGOP bool
}

// State holds everything that must persist across TS packets within a
// single Run: the PAT/PMT-derived PID maps, the in-progress elementary
// accumulator, and the slice-contributor bookkeeping that is a
// package-level static (lastPid) in the C reference. Unlike that
// reference, State is an explicit value owned by the caller, not a
// process-wide global, so that multiple analyses can run concurrently
// without interference.
type State struct {
	NetworkPID    uint16
	ProgramMapPID uint16
	SCTE35PID     uint16

	// PIDNames and PIDTypes are populated from the PMT's element loop
	// (and, for the null-packet and PCR names, set by hand in handlePMT
	// exactly as original_source/mpts_parser.cpp's processPid does).
	PIDNames map[uint16]string
	PIDTypes map[uint16]uint8

	// lastPID is -1 until the first non-null packet is seen, and then
	// holds the PID of the most recent non-null packet of any kind;
	// it is the State equivalent of processPid's function-local static
	// size_t lastPid.
	lastPID int32

	frameNumber int

	accum    *ElementaryAccumulator
	videoPID uint16
	kind     streamKind

	mpeg2 *mpeg2video.Decoder
	h264  *h264dec.Stream

	current *FrameRecord
}

// NewState returns a State ready for a new analysis run.
func NewState() *State {
	return &State{
		PIDNames: map[uint16]string{pidNull: "NULL Packet"},
		PIDTypes: map[uint16]uint8{},
		lastPID:  -1,
		accum:    NewElementaryAccumulator(),
		mpeg2:    mpeg2video.NewDecoder(),
		h264:     h264dec.NewStream(),
	}
}

// pidName returns the human-readable name for pid, or the empty string
// if nothing in the PMT (or the fixed entries above) named it.
func (s *State) pidName(pid uint16) string {
	return s.PIDNames[pid]
}
