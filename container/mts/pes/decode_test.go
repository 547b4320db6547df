/*
NAME
  decode_test.go

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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadHeaderExclusionSet(t *testing.T) {
	b := []byte{
		0x00, 0x00, 0x01, // packet start code prefix
		StreamIDProgramStreamMap,
		0x00, 0x03, // PES_packet_length
		0xAA, 0xBB, 0xCC, // payload, no optional fields
	}
	h, err := ReadHeader(b, len(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Header{
		StreamID:     StreamIDProgramStreamMap,
		PacketLength: 3,
		HeaderLength: 6,
	}
	if !cmp.Equal(h, want) {
		t.Errorf("unexpected header:\ngot:  %#v\nwant: %#v", h, want)
	}
}

func TestReadHeaderPTSOnly(t *testing.T) {
	b := []byte{
		0x00, 0x00, 0x01,
		0xE0,       // video stream ID
		0x00, 0x00, // PES_packet_length, resolved from dataLength
		0x80, // marker bits, scrambling, priority, DAI, copyright, original
		0x80, // PTS_DTS_flags=10, no other optional fields
		5,    // header_data_length
		0x21, 0x00, 0x07, 0x0D, 0x41, // PTS
	}
	h, err := ReadHeader(b, len(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.HasPTS() || h.HasDTS() {
		t.Fatalf("unexpected PTS/DTS flags: HasPTS=%v HasDTS=%v", h.HasPTS(), h.HasDTS())
	}
	if h.PTS != 100000 {
		t.Errorf("unexpected PTS: got %d want %d", h.PTS, 100000)
	}
	if h.HeaderLength != 14 {
		t.Errorf("unexpected header length: got %d want %d", h.HeaderLength, 14)
	}
}

func TestReadHeaderPTSAndDTS(t *testing.T) {
	b := []byte{
		0x00, 0x00, 0x01,
		0xE0,
		0x00, 0x00,
		0x80,
		0xC0, // PTS_DTS_flags=11
		10,   // header_data_length
		0x21, 0x00, 0x07, 0x0D, 0x41, // PTS
		0x19, 0x00, 0x05, 0x01, 0x01, // DTS
	}
	h, err := ReadHeader(b, len(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.HasPTS() || !h.HasDTS() {
		t.Fatalf("unexpected PTS/DTS flags: HasPTS=%v HasDTS=%v", h.HasPTS(), h.HasDTS())
	}
	if h.PTS != 100000 {
		t.Errorf("unexpected PTS: got %d want %d", h.PTS, 100000)
	}
	if h.DTS != 4295032960 {
		t.Errorf("unexpected DTS: got %d want %d", h.DTS, 4295032960)
	}
	if h.HeaderLength != 19 {
		t.Errorf("unexpected header length: got %d want %d", h.HeaderLength, 19)
	}
}

func TestReadHeaderZeroPacketLength(t *testing.T) {
	b := []byte{
		0x00, 0x00, 0x01,
		StreamIDPaddingStream,
		0x00, 0x00, // PES_packet_length, to be resolved
		0xAA, 0xBB, 0xCC, 0xDD,
	}
	h, err := ReadHeader(b, len(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := uint16(len(b) - 6); h.PacketLength != want {
		t.Errorf("unexpected resolved packet length: got %d want %d", h.PacketLength, want)
	}
}

func TestReadHeaderStuffingCap(t *testing.T) {
	b := []byte{
		0x00, 0x00, 0x01,
		0xE0,
		0x00, 0x00,
		0x80,
		0x00, // no PTS/DTS or other optional fields
		0,    // header_data_length
	}
	for i := 0; i < 40; i++ {
		b = append(b, 0xFF)
	}
	h, err := ReadHeader(b, len(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 9 + maxStuffingBytes; h.HeaderLength != want {
		t.Errorf("unexpected header length: got %d want %d", h.HeaderLength, want)
	}
}
