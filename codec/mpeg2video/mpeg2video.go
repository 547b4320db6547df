/*
DESCRIPTION
  mpeg2video.go provides a decoder for an MPEG-2 video elementary stream,
  ISO/IEC 13818-2. It walks the start-code structured bitstream found in
  the payload of a video PES packet, classifying each picture and
  recording the header fields needed to describe the stream without
  performing full macroblock-level decode.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mpeg2video decodes MPEG-2 video elementary stream headers,
// ISO/IEC 13818-2.
package mpeg2video

import "github.com/pkg/errors"

// Start codes, ISO/IEC 13818-2 Table 6-1.
const (
	PictureStartCode      = 0x00
	SliceStartCodeBegin   = 0x01
	SliceStartCodeEnd     = 0xAF
	UserDataStartCode     = 0xB2
	SequenceHeaderCode    = 0xB3
	SequenceErrorCode     = 0xB4
	ExtensionStartCode    = 0xB5
	SequenceEndCode       = 0xB7
	GroupStartCode        = 0xB8
)

// Extension start code identifiers, ISO/IEC 13818-2 Table 6-2, carried in
// the top 4 bits of the first byte following an extension_start_code.
const (
	SequenceExtensionID          = 1
	SequenceDisplayExtensionID   = 2
	QuantMatrixExtensionID       = 3
	SequenceScalableExtensionID  = 5
	PictureDisplayExtensionID    = 7
	PictureCodingExtensionID     = 8
	PictureSpatialScalableExtID  = 9
	PictureTemporalScalableExtID = 10
)

// extensionType tracks which extension is expected to follow the next
// extension_start_code, per the state diagram in 6.2.2 Video Sequence.
type extensionType int

const (
	extUnknown extensionType = iota
	extSequence
	extPictureCoding
	extAndUserData0
	extAndUserData1
	extAndUserData2
)

// FrameType classifies a decoded picture, ISO/IEC 13818-2 Table 6-12.
type FrameType byte

const (
	FrameTypeReserved FrameType = iota
	FrameTypeI
	FrameTypeP
	FrameTypeB
	FrameTypeD
)

func (t FrameType) String() string {
	switch t {
	case FrameTypeI:
		return "I"
	case FrameTypeP:
		return "P"
	case FrameTypeB:
		return "B"
	case FrameTypeD:
		return "D"
	default:
		return "reserved"
	}
}

// ErrNoStartCode is the error value for a bitstream that runs out before
// a start code could be found. No function in this package returns it:
// ParseFrames stops at the end of its input and returns a nil error.
var ErrNoStartCode = errors.New("mpeg2video: no start code found")

// Frame is one decoded picture and the sequence/GOP state in effect when
// it was parsed.
type Frame struct {
	Type FrameType

	TemporalReference uint16
	VBVDelay          uint16

	ClosedGOP  bool
	BrokenLink bool
}

// Decoder holds the state threaded across successive calls into a single
// MPEG-2 video elementary stream: the most recently parsed sequence and
// GOP headers, and which extension is expected next. A Decoder must not
// be shared between independent streams.
type Decoder struct {
	nextExtension extensionType

	Sequence *SequenceHeader
	GOP      *GroupOfPictures

	Frames []Frame
}

// NewDecoder returns a Decoder ready to parse a new elementary stream.
func NewDecoder() *Decoder {
	return &Decoder{nextExtension: extUnknown}
}

// ParseFrames walks b, which holds the payload of one or more video PES
// packets concatenated together, decoding headers until framesWanted
// pictures have been parsed, a sequence_end_code or unrecognised start
// code is reached, or b is exhausted. It returns the number of bytes
// consumed.
//
// Every start code in the table above is dispatched to a real handler;
// slice payloads (which this decoder does not decode beyond their
// header) are skipped to the next start code once their header has been
// read.
func (d *Decoder) ParseFrames(b []byte, framesWanted int) (int, error) {
	pos := 0
	framesReceived := 0

	for pos < len(b) && framesReceived < framesWanted {
		sc, scLen, ok := findStartCode(b[pos:])
		if !ok {
			return pos, nil
		}
		pos += scLen

		switch {
		case sc == PictureStartCode:
			n, frame, err := d.readPictureHeader(b[pos:])
			if err != nil {
				return pos, errors.Wrap(err, "could not read picture header")
			}
			pos += n
			if d.GOP != nil {
				frame.ClosedGOP = d.GOP.ClosedGOP
				frame.BrokenLink = d.GOP.BrokenLink
			}
			d.Frames = append(d.Frames, frame)
			framesReceived++

		case sc == UserDataStartCode:
			pos += skipToNextStartCode(b[pos:])

		case sc == SequenceHeaderCode:
			n, sh, err := d.readSequenceHeader(b[pos:])
			if err != nil {
				return pos, errors.Wrap(err, "could not read sequence header")
			}
			pos += n
			d.Sequence = sh

		case sc == SequenceErrorCode:
			return pos, nil

		case sc == ExtensionStartCode:
			n, err := d.readExtension(b[pos:])
			if err != nil {
				return pos, errors.Wrap(err, "could not read extension")
			}
			pos += n

		case sc == SequenceEndCode:
			return pos, nil

		case sc == GroupStartCode:
			n, gop, err := d.readGroupOfPictures(b[pos:])
			if err != nil {
				return pos, errors.Wrap(err, "could not read group of pictures header")
			}
			pos += n
			d.GOP = gop

		case sc >= SliceStartCodeBegin && sc <= SliceStartCodeEnd:
			n, err := readSlice(b[pos:])
			if err != nil {
				return pos, errors.Wrap(err, "could not read slice")
			}
			pos += n

		default:
			// Not an MPEG-2 video start code; return control to the caller.
			return pos, nil
		}
	}

	return pos, nil
}

// findStartCode reports the start code byte immediately following a
// 0x000001 prefix at the beginning of b, and the number of bytes (4) it
// and its prefix occupy.
func findStartCode(b []byte) (code byte, n int, ok bool) {
	if len(b) < 4 {
		return 0, 0, false
	}
	if b[0] != 0x00 || b[1] != 0x00 || b[2] != 0x01 {
		return 0, 0, false
	}
	return b[3], 4, true
}

// skipToNextStartCode scans b for the next 0x000001 start code prefix,
// returning the number of bytes skipped to reach it (not including the
// prefix itself).
func skipToNextStartCode(b []byte) int {
	for i := 0; i+2 < len(b); i++ {
		if b[i] == 0x00 && b[i+1] == 0x00 && b[i+2] == 0x01 {
			return i
		}
	}
	return len(b)
}

func read4(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
