/*
DESCRIPTION
  nalloop.go splits an Annex B byte stream into individual NAL units and
  decodes each one far enough to classify it, without performing
  macroblock-level slice decode.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"bytes"

	"github.com/ausocean/av/codec/h264/h264dec/bits"
	"github.com/pkg/errors"
)

// NAL unit types, Table 7-1.
const (
	naluTypeUnspecified              = 0
	naluTypeSliceNonIDR              = 1
	naluTypeSliceDataPartitionA      = 2
	naluTypeSliceDataPartitionB      = 3
	naluTypeSliceDataPartitionC      = 4
	naluTypeSliceIDR                 = 5
	naluTypeSEI                      = 6
	naluTypeSPS                      = 7
	naluTypePPS                      = 8
	naluTypeAccessUnitDelimiter      = 9
	naluTypeEndOfSequence            = 10
	naluTypeEndOfStream              = 11
	naluTypeFillerData               = 12
	naluTypeSPSExtension             = 13
	naluTypePrefixNALU               = 14
	naluTypeSubsetSPS                = 15
	naluTypeAuxCodedPictureNoPart    = 19
	naluTypeSliceLayerExtRBSP        = 20
	naluTypeSliceLayerExtRBSP2       = 21
)

// SplitAnnexB splits b, an Annex B byte stream (NAL units delimited by
// 0x000001 or 0x00000001 start codes), into the raw bytes of each NAL
// unit, start codes and any leading zero padding removed. It mirrors the
// frame-level NAL loop found in elementary H.264 stream parsers: find a
// start code, then find the next one (or end of buffer) to bound the
// unit.
func SplitAnnexB(b []byte) [][]byte {
	starts := findStartCodes(b)
	if len(starts) == 0 {
		return nil
	}

	var units [][]byte
	for i, s := range starts {
		end := len(b)
		if i+1 < len(starts) {
			end = starts[i+1].offset
		}
		nal := b[s.offset+s.length : end]
		units = append(units, nal)
	}
	return units
}

type startCode struct {
	offset int
	length int // 3 for 0x000001, 4 for 0x00000001
}

// findStartCodes locates every Annex B start code in b.
func findStartCodes(b []byte) []startCode {
	var out []startCode
	for i := 0; i+2 < len(b); i++ {
		if b[i] != 0x00 || b[i+1] != 0x00 || b[i+2] != 0x01 {
			continue
		}
		if i > 0 && b[i-1] == 0x00 {
			out = append(out, startCode{offset: i - 1, length: 4})
		} else {
			out = append(out, startCode{offset: i, length: 3})
		}
	}
	return out
}

// Unit is one decoded NAL unit: its header and, depending on Type, a
// decoded payload.
type Unit struct {
	NAL *NALUnit

	SPS         *SPS
	PPS         *PPS
	AUD         *AccessUnitDelimiter
	SEIMessages []*SEIMessage
	SliceHeader *SliceHeader

	// IsIDR is true for NAL unit type 5: a slice of an IDR picture.
	IsIDR bool
}

// Stream holds the decode state that must persist across NAL units in a
// single elementary stream: the sequence and picture parameter sets seen
// so far. The chroma_format_idc of the most recent SPS is used when
// parsing a PPS; slice headers are parsed without them.
type Stream struct {
	sps       map[int]*SPS
	pps       map[int]*PPS
	lastSPSID int
	haveSPS   bool
}

// NewStream returns a Stream ready to decode NAL units from a single
// elementary stream.
func NewStream() *Stream {
	return &Stream{sps: map[int]*SPS{}, pps: map[int]*PPS{}}
}

// ParseNAL decodes a single NAL unit (its start code already stripped,
// as returned by SplitAnnexB) as far as this analyzer goes: SPS and PPS
// are fully decoded, slice headers are decoded to the fields needed to
// classify the slice, and SEI recovery-point messages are decoded; all
// other NAL unit types are classified only by their NAL unit header.
func (s *Stream) ParseNAL(nal []byte) (*Unit, error) {
	br := bits.NewBitReader(bytes.NewReader(nal))
	n, err := NewNALUnit(br)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse NAL unit header")
	}

	u := &Unit{NAL: n}

	switch n.Type {
	case naluTypeSPS:
		sps, err := NewSPS(n.RBSP, false)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse SPS")
		}
		u.SPS = sps
		s.sps[int(sps.SPSID)] = sps
		s.lastSPSID = int(sps.SPSID)
		s.haveSPS = true

	case naluTypePPS:
		// chroma_format_idc defaults to 4:2:0 (1) when no SPS has been
		// seen yet; the profiles that signal chroma_format_idc in the SPS
		// are exactly the ones NewPPS needs it for.
		chroma := 1
		if s.haveSPS {
			chroma = int(s.sps[s.lastSPSID].ChromaFormatIDC)
		}
		pbr := bits.NewBitReader(bytes.NewReader(n.RBSP))
		pps, err := NewPPS(pbr, chroma)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse PPS")
		}
		u.PPS = pps
		s.pps[pps.ID] = pps

	case naluTypeAccessUnitDelimiter:
		aud, err := NewAccessUnitDelimiter(n.RBSP)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse access unit delimiter")
		}
		u.AUD = aud

	case naluTypeSEI:
		msgs, err := ParseSEIMessages(n.RBSP)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse SEI messages")
		}
		u.SEIMessages = msgs

	case naluTypeSliceIDR, naluTypeSliceNonIDR, naluTypeAuxCodedPictureNoPart:
		sh, err := NewSliceHeader(n.RBSP)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse slice header")
		}
		u.SliceHeader = sh
		u.IsIDR = n.Type == naluTypeSliceIDR
	}

	return u, nil
}
