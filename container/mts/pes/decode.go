/*
NAME
  decode.go - decodes a PES packet header.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pes

import "github.com/pkg/errors"

// Stream IDs that carry no optional PES header fields, ISO/IEC 13818-1
// Table 2-21 / 2.4.3.7. Their payload begins immediately after
// PES_packet_length.
const (
	StreamIDProgramStreamMap       = 0xBC
	StreamIDPaddingStream          = 0xBE
	StreamIDPrivateStream2         = 0xBF
	StreamIDECMStream              = 0xF0
	StreamIDEMMStream              = 0xF1
	StreamIDDSMCCStream            = 0xF2
	StreamIDITUH222TypeE           = 0xF8
	StreamIDProgramStreamDirectory = 0xFF
)

// maxStuffingBytes is the invariant cap on 0xFF stuffing bytes permitted
// after the optional PES header fields. The reference this was ported
// from loops unconditionally on 0xFF bytes with no cap; this module
// enforces the documented limit so a corrupt or non-conformant stream
// cannot cause an unbounded scan.
const maxStuffingBytes = 32

// TrickMode is the decoded DSM trick-mode control field, Table 2-24.
type TrickMode struct {
	Control              uint8
	FieldID              uint8
	IntraSliceRefresh    bool
	FrequencyTruncation  uint8
	RepCntrl             uint8
}

// Extension is the decoded PES_extension field.
type Extension struct {
	PrivateDataFlag              bool
	PrivateData                  []byte
	PackHeaderFieldFlag          bool
	PackField                    []byte
	SequenceCounterFlag          bool
	SequenceCounter              uint8
	MPEG1MPEG2Identifier         uint8
	OriginalStuffLength          uint8
	PSTDBufferFlag               bool
	PSTDBufferScale              uint8
	PSTDBufferSize               uint16
	Flag2                        bool
	StreamIDExtensionFlag        bool
	StreamIDExtension            uint8
	TREF                         uint64
}

// Header is a fully decoded PES packet header, ISO/IEC 13818-1 2.4.3.7.
type Header struct {
	StreamID       uint8
	PacketLength   uint16

	// HasOptionalFields is false for the stream IDs in the no-header-fields
	// exclusion set; all fields below are zero-valued in that case.
	HasOptionalFields bool

	ScramblingControl       uint8
	Priority                bool
	DataAlignmentIndicator  bool
	Copyright               bool
	OriginalOrCopy          bool

	PTSDTSFlags     uint8
	ESCRFlag        bool
	ESRateFlag      bool
	DSMTrickModeFlag bool
	AdditionalCopyInfoFlag bool
	CRCFlag         bool
	ExtensionFlag   bool

	HeaderDataLength uint8

	PTS uint64
	DTS uint64

	ESCRBase      uint64
	ESCRExtension uint16

	ESRate uint32

	TrickMode TrickMode

	AdditionalCopyInfo uint8

	PreviousCRC uint16

	Extension *Extension

	// HeaderLength is the total number of bytes consumed decoding this
	// header, including the 6-byte packet_start_code_prefix/stream_id/
	// PES_packet_length prefix.
	HeaderLength int
}

// HasPTS reports whether this header carries a presentation timestamp.
func (h *Header) HasPTS() bool { return h.PTSDTSFlags == 0x2 || h.PTSDTSFlags == 0x3 }

// HasDTS reports whether this header carries a decode timestamp.
func (h *Header) HasDTS() bool { return h.PTSDTSFlags == 0x3 }

func hasNoOptionalFields(streamID uint8) bool {
	switch streamID {
	case StreamIDProgramStreamMap, StreamIDPaddingStream, StreamIDPrivateStream2,
		StreamIDECMStream, StreamIDEMMStream, StreamIDDSMCCStream,
		StreamIDITUH222TypeE, StreamIDProgramStreamDirectory:
		return true
	}
	return false
}

// ReadHeader decodes a PES packet header from the start of b. dataLength is
// the number of bytes available in the enclosing PES packet's data, used to
// resolve a PES_packet_length of 0 (permitted only for video streams,
// meaning "to the end of this packet's data").
func ReadHeader(b []byte, dataLength int) (*Header, error) {
	if len(b) < 6 {
		return nil, errors.New("pes: buffer too short for packet start code")
	}

	prefix := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	if prefix != 0x000001 {
		return nil, errors.New("pes: missing packet_start_code_prefix")
	}

	h := &Header{StreamID: b[3]}
	h.PacketLength = uint16(b[4])<<8 | uint16(b[5])
	p := 6

	if h.PacketLength == 0 {
		h.PacketLength = uint16(dataLength - 6)
	}

	if hasNoOptionalFields(h.StreamID) {
		h.HeaderLength = p
		return h, nil
	}

	h.HasOptionalFields = true

	if len(b) < p+3 {
		return nil, errors.New("pes: buffer too short for PES header flags")
	}

	b0 := b[p]
	p++
	h.ScramblingControl = (b0 & 0x30) >> 4
	h.Priority = b0&0x08 != 0
	h.DataAlignmentIndicator = b0&0x04 != 0
	h.Copyright = b0&0x02 != 0
	h.OriginalOrCopy = b0&0x01 != 0

	b1 := b[p]
	p++
	h.PTSDTSFlags = (b1 & 0xC0) >> 6
	h.ESCRFlag = b1&0x20 != 0
	h.ESRateFlag = b1&0x10 != 0
	h.DSMTrickModeFlag = b1&0x08 != 0
	h.AdditionalCopyInfoFlag = b1&0x04 != 0
	h.CRCFlag = b1&0x02 != 0
	h.ExtensionFlag = b1&0x01 != 0

	h.HeaderDataLength = b[p]
	p++

	if h.PTSDTSFlags == 0x2 {
		if len(b) < p+5 {
			return nil, errors.New("pes: buffer too short for PTS")
		}
		h.PTS = readTimestamp(b[p:])
		p += 5
	} else if h.PTSDTSFlags == 0x3 {
		if len(b) < p+10 {
			return nil, errors.New("pes: buffer too short for PTS/DTS")
		}
		h.PTS = readTimestamp(b[p:])
		p += 5
		h.DTS = readTimestamp(b[p:])
		p += 5
	}

	if h.ESCRFlag {
		if len(b) < p+6 {
			return nil, errors.New("pes: buffer too short for ESCR")
		}
		base, ext := readESCR(b[p:])
		h.ESCRBase = base
		h.ESCRExtension = ext
		p += 6
	}

	if h.ESRateFlag {
		if len(b) < p+3 {
			return nil, errors.New("pes: buffer too short for ES_rate")
		}
		three := uint32(b[p])<<16 | uint32(b[p+1])<<8 | uint32(b[p+2])
		h.ESRate = (three & 0x7FFFFE) >> 1
		p += 3
	}

	if h.DSMTrickModeFlag {
		if len(b) < p+1 {
			return nil, errors.New("pes: buffer too short for trick mode")
		}
		h.TrickMode = readTrickMode(b[p])
		p++
	}

	if h.AdditionalCopyInfoFlag {
		if len(b) < p+1 {
			return nil, errors.New("pes: buffer too short for additional copy info")
		}
		h.AdditionalCopyInfo = b[p] & 0x7F
		p++
	}

	if h.CRCFlag {
		if len(b) < p+2 {
			return nil, errors.New("pes: buffer too short for PES CRC")
		}
		h.PreviousCRC = uint16(b[p])<<8 | uint16(b[p+1])
		p += 2
	}

	if h.ExtensionFlag {
		ext, n, err := readExtension(b[p:])
		if err != nil {
			return nil, errors.Wrap(err, "could not read PES extension")
		}
		h.Extension = ext
		p += n
	}

	stuffed := 0
	for p < len(b) && b[p] == 0xFF && stuffed < maxStuffingBytes {
		p++
		stuffed++
	}

	h.HeaderLength = p
	return h, nil
}

// readTimestamp decodes a 5-byte, 33-bit PTS or DTS field, ISO/IEC
// 13818-1 2.4.3.7.
func readTimestamp(b []byte) uint64 {
	ts := uint64(b[0]&0x0E) << 29
	two := uint64(b[1])<<8 | uint64(b[2])
	ts |= (two & 0xFFFE) << 14
	two = uint64(b[3])<<8 | uint64(b[4])
	ts |= (two & 0xFFFE) >> 1
	return ts
}

// Seconds converts a 90kHz PTS/DTS value to seconds.
func Seconds(ts uint64) float64 {
	return float64(ts) / 90000.0
}

func readESCR(b []byte) (base uint64, ext uint16) {
	b0 := uint32(b[0])
	escrBase := uint64(b0&0x38) << 27
	escrBase |= uint64(b0&0x03) << 29

	escrBase |= uint64(b[1]) << 19

	escrBase |= uint64(b[2]&0xF8) << 11
	escrBase |= uint64(b[2]&0x03) << 13

	escrBase |= uint64(b[3]) << 4

	escrBase |= uint64(b[4]&0xF8) >> 3
	escrExt := uint16(b[4]&0x03) << 7

	escrExt |= uint16(b[5]&0xFE) >> 1

	return escrBase, escrExt
}

func readTrickMode(b byte) TrickMode {
	tm := TrickMode{Control: b >> 5}
	switch tm.Control {
	case 0, 3: // fast forward, fast reverse
		tm.FieldID = (b & 0x18) >> 3
		tm.IntraSliceRefresh = b&0x04 != 0
		tm.FrequencyTruncation = b & 0x03
	case 1, 4: // slow motion, slow reverse
		tm.RepCntrl = b & 0x1F
	case 2: // freeze frame
		tm.FieldID = (b & 0x18) >> 3
	}
	return tm
}

// readExtension decodes the PES_extension field starting at b[0], and
// returns the number of bytes consumed.
func readExtension(b []byte) (*Extension, int, error) {
	if len(b) < 1 {
		return nil, 0, errors.New("pes: buffer too short for extension flags")
	}
	e := &Extension{}
	p := 0

	b0 := b[p]
	p++
	e.PrivateDataFlag = b0&0x80 != 0
	e.PackHeaderFieldFlag = b0&0x40 != 0
	e.SequenceCounterFlag = b0&0x20 != 0
	e.PSTDBufferFlag = b0&0x10 != 0
	e.Flag2 = b0&0x01 != 0

	if e.PrivateDataFlag {
		if len(b) < p+16 {
			return nil, 0, errors.New("pes: buffer too short for PES private data")
		}
		e.PrivateData = append([]byte(nil), b[p:p+16]...)
		p += 16
	}

	if e.PackHeaderFieldFlag {
		if len(b) < p+1 {
			return nil, 0, errors.New("pes: buffer too short for pack field length")
		}
		n := int(b[p])
		p++
		if len(b) < p+n {
			return nil, 0, errors.New("pes: buffer too short for pack header field")
		}
		e.PackField = append([]byte(nil), b[p:p+n]...)
		p += n
	}

	if e.SequenceCounterFlag {
		if len(b) < p+2 {
			return nil, 0, errors.New("pes: buffer too short for sequence counter")
		}
		e.SequenceCounter = b[p] & 0x7F
		p++
		e.MPEG1MPEG2Identifier = (b[p] & 0x40) >> 6
		e.OriginalStuffLength = b[p] & 0x3F
		p++
	}

	if e.PSTDBufferFlag {
		if len(b) < p+2 {
			return nil, 0, errors.New("pes: buffer too short for P-STD buffer")
		}
		two := uint16(b[p])<<8 | uint16(b[p+1])
		e.PSTDBufferScale = uint8((two & 0x2000) >> 13)
		e.PSTDBufferSize = two & 0x1FFF
		p += 2
	}

	if e.Flag2 {
		if len(b) < p+1 {
			return nil, 0, errors.New("pes: buffer too short for extension field length")
		}
		fieldLen := int(b[p] & 0x7F)
		p++
		extStart := p

		if len(b) < p+1 {
			return nil, 0, errors.New("pes: buffer too short for stream id extension")
		}
		b1 := b[p]
		p++
		e.StreamIDExtensionFlag = b1&0x80 != 0
		if !e.StreamIDExtensionFlag {
			e.StreamIDExtension = b1 & 0x7F
		} else {
			trefExtFlag := b1 & 0x1
			if trefExtFlag == 0 {
				if len(b) < p+5 {
					return nil, 0, errors.New("pes: buffer too short for TREF")
				}
				e.TREF = readTimestamp(b[p:])
				p += 5
			}
		}

		p = extStart + fieldLen
	}

	return e, p, nil
}
