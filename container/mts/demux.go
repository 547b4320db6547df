/*
NAME
  demux.go - a decode-side reader for MPEG-TS packets.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Adaptation field control values, Table 2-5.
const (
	AFCReserved            = 0x0
	AFCPayloadOnly         = 0x1
	AFCAdaptationOnly      = 0x2
	AFCAdaptationAndPayload = 0x3
)

// ErrBadSync indicates a packet did not begin with the sync byte 0x47.
// This is a per-packet recoverable framing error: the demuxer skips the
// packet and continues with the next one.
var ErrBadSync = errors.New("mts: packet missing sync byte")

// PCR holds a decoded 42-bit program clock reference: a 33-bit base
// (90kHz) and a 9-bit extension (27MHz).
type PCR struct {
	Base      uint64
	Extension uint16
}

// AdaptationField is the decoded contents of a packet's adaptation field,
// ISO/IEC 13818-1 2.4.3.5.
type AdaptationField struct {
	Length                        uint8
	DiscontinuityIndicator        bool
	RandomAccessIndicator         bool
	ElementaryStreamPriorityInd   bool
	PCRFlag                       bool
	OPCRFlag                      bool
	SplicingPointFlag             bool
	TransportPrivateDataFlag      bool
	AdaptationFieldExtensionFlag  bool
	PCR                           PCR
	OPCR                          PCR
	SpliceCountdown               int8
	TransportPrivateData          []byte
	Extension                     *AdaptationFieldExtension
}

// AdaptationFieldExtension is the decoded contents of an adaptation field
// extension, ISO/IEC 13818-1 2.4.3.5.
type AdaptationFieldExtension struct {
	LTWFlag           bool
	PiecewiseRateFlag bool
	SeamlessSpliceFlag bool
	LTWValidFlag      bool
	LTWOffset         uint16
	PiecewiseRate     uint32
	SpliceType        uint8
	DTSNextAU         uint64
}

// Header is the decoded fixed 4-byte MPEG-TS packet header, ISO/IEC
// 13818-1 2.4.3.2.
type Header struct {
	TEI      bool
	PUSI     bool
	Priority bool
	PID      uint16
	TSC      byte
	AFC      byte
	CC       byte
}

// TSPacket is a single demultiplexed transport stream packet: its decoded
// header, optional adaptation field, and the raw payload bytes that follow
// (nil if the adaptation field control indicates no payload).
type TSPacket struct {
	Header
	Adaptation *AdaptationField
	Payload    []byte

	// Pos is the file offset, in bytes, of the first byte of this packet
	// (the sync byte, not counting any timestamp prefix).
	Pos int64
}

// Demuxer reads successive fixed-size TS packets from an io.Reader,
// tracking file position as the sole mutation point for all downstream
// parsers, per the spec's recommendation that file position be threaded
// explicitly rather than shared through package-level state.
type Demuxer struct {
	r          *bufio.Reader
	PacketSize int
	pos        int64
}

// NewDemuxer returns a Demuxer wrapping r. It peeks the first bytes of the
// stream to detect the on-disk packet size (188 or 192 bytes); see
// DetectPacketSize.
func NewDemuxer(r io.Reader) (*Demuxer, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	lead, err := br.Peek(5)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "could not peek leading bytes")
	}
	size, err := DetectPacketSize(lead)
	if err != nil {
		return nil, err
	}
	return &Demuxer{r: br, PacketSize: size}, nil
}

// Pos returns the current file offset of the demuxer, in bytes.
func (d *Demuxer) Pos() int64 { return d.pos }

// Next reads and decodes the next transport stream packet. It returns
// io.EOF (unwrapped) when the stream is exhausted. A packet whose sync
// byte is wrong is reported as an error wrapping ErrBadSync; the caller
// may choose to skip it and call Next again, since the demuxer has
// already advanced past the bad packet.
func (d *Demuxer) Next() (*TSPacket, error) {
	buf := make([]byte, d.PacketSize)
	n, err := io.ReadFull(d.r, buf)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil && n == 0 {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "short read of packet")
	}

	start := d.pos
	d.pos += int64(d.PacketSize)

	b := buf
	if d.PacketSize == TimestampedPacketSize {
		b = buf[4:]
	}

	if b[0] != SyncByte {
		return nil, errors.Wrapf(ErrBadSync, "packet at offset %d", start)
	}

	pkt := &TSPacket{Pos: start}

	pidHi := uint16(b[1])
	pidLo := uint16(b[2])
	full := pidHi<<8 | pidLo

	pkt.TEI = full&0x8000 != 0
	pkt.PUSI = full&0x4000 != 0
	pkt.Priority = full&0x2000 != 0
	pkt.PID = full & 0x1FFF

	pkt.TSC = (b[3] & 0xC0) >> 6
	pkt.AFC = (b[3] & 0x30) >> 4
	pkt.CC = b[3] & 0x0F

	rest := b[4:]

	switch pkt.AFC {
	case AFCAdaptationOnly:
		af, err := parseAdaptationField(rest)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse adaptation field")
		}
		pkt.Adaptation = af
	case AFCAdaptationAndPayload:
		af, err := parseAdaptationField(rest)
		if err != nil {
			return nil, errors.Wrap(err, "could not parse adaptation field")
		}
		pkt.Adaptation = af
		pkt.Payload = rest[1+int(af.Length):]
	case AFCPayloadOnly:
		pkt.Payload = rest
	}

	return pkt, nil
}

// parseAdaptationField decodes an adaptation field starting at b[0], which
// must be the adaptation_field_length byte.
func parseAdaptationField(b []byte) (*AdaptationField, error) {
	if len(b) < 1 {
		return nil, errors.New("mts: buffer too short for adaptation field length")
	}
	af := &AdaptationField{Length: b[0]}
	if af.Length == 0 {
		return af, nil
	}

	body := b[1:]
	if len(body) < int(af.Length) {
		return nil, errors.New("mts: buffer too short for adaptation field body")
	}

	p := 0
	flags := body[p]
	p++

	af.DiscontinuityIndicator = flags&0x80 != 0
	af.RandomAccessIndicator = flags&0x40 != 0
	af.ElementaryStreamPriorityInd = flags&0x20 != 0
	af.PCRFlag = flags&0x10 != 0
	af.OPCRFlag = flags&0x08 != 0
	af.SplicingPointFlag = flags&0x04 != 0
	af.TransportPrivateDataFlag = flags&0x02 != 0
	af.AdaptationFieldExtensionFlag = flags&0x01 != 0

	if af.PCRFlag {
		af.PCR = readPCR(body[p:])
		p += 6
	}

	if af.OPCRFlag {
		af.OPCR = readPCR(body[p:])
		p += 6
	}

	if af.SplicingPointFlag {
		af.SpliceCountdown = int8(body[p])
		p++
	}

	if af.TransportPrivateDataFlag {
		n := int(body[p])
		p++
		af.TransportPrivateData = append([]byte(nil), body[p:p+n]...)
		p += n
	}

	if af.AdaptationFieldExtensionFlag {
		extLen := int(body[p])
		p++
		extStart := p
		ext := &AdaptationFieldExtension{}

		extFlags := body[p]
		p++
		ext.LTWFlag = extFlags&0x80 != 0
		ext.PiecewiseRateFlag = extFlags&0x40 != 0
		ext.SeamlessSpliceFlag = extFlags&0x20 != 0

		if ext.LTWFlag {
			two := read2(body[p:])
			p += 2
			ext.LTWValidFlag = two&0x8000 != 0
			ext.LTWOffset = two & 0x7FFF
		}

		if ext.PiecewiseRateFlag {
			two := read2(body[p:])
			p += 2
			ext.PiecewiseRate = uint32(two & 0x3FFF)
		}

		if ext.SeamlessSpliceFlag {
			b0 := uint32(body[p])
			p++
			ext.SpliceType = uint8(b0&0xF0) >> 4
			dts := uint64(b0&0x0E) << 29

			two := uint64(read2(body[p:]))
			p += 2
			dts |= (two & 0xFFFE) << 14

			two = uint64(read2(body[p:]))
			p += 2
			dts |= (two & 0xFFFE) >> 1

			ext.DTSNextAU = dts
		}

		p = extStart + extLen
		af.Extension = ext
	}

	return af, nil
}

func read2(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func read4(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// readPCR decodes a 48-bit program_clock_reference field into its 33-bit
// base (90kHz) and 9-bit extension (27MHz) parts.
func readPCR(b []byte) PCR {
	base := uint64(read4(b)) << 1
	two := read2(b[4:])
	base |= uint64(two&0x8000) >> 15
	return PCR{Base: base, Extension: two & 0x1FF}
}
