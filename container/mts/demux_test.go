/*
NAME
  demux_test.go

DESCRIPTION
  demux_test.go provides testing for functionality in demux.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"bytes"
	"errors"
	"testing"
)

func TestDetectPacketSize(t *testing.T) {
	tests := []struct {
		name string
		lead []byte
		want int
		err  bool
	}{
		{
			name: "raw 188-byte packets",
			lead: []byte{SyncByte, 0x00, 0x00, 0x00, 0x00},
			want: RawPacketSize,
		},
		{
			name: "timestamped 192-byte packets",
			lead: []byte{0x00, 0x00, 0x00, 0x00, SyncByte},
			want: TimestampedPacketSize,
		},
		{
			name: "unrecognised framing",
			lead: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
			err:  true,
		},
		{
			name: "too short",
			lead: []byte{SyncByte, 0x00},
			err:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := DetectPacketSize(test.lead)
			if (err != nil) != test.err {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !test.err && got != test.want {
				t.Errorf("unexpected packet size: got %d want %d", got, test.want)
			}
		})
	}
}

func rawTSPacket(afc byte, cc byte, body []byte) []byte {
	pkt := make([]byte, RawPacketSize)
	pkt[0] = SyncByte
	pkt[1] = 0x41 // PUSI set, PID high bits
	pkt[2] = 0x00 // PID = 0x0100
	pkt[3] = (afc << 4) | (cc & 0x0F)
	copy(pkt[4:], body)
	return pkt
}

func TestDemuxerNextPayloadOnly(t *testing.T) {
	body := bytes.Repeat([]byte{0xAB}, RawPacketSize-4)
	pkt := rawTSPacket(AFCPayloadOnly, 5, body)

	d, err := NewDemuxer(bytes.NewReader(pkt))
	if err != nil {
		t.Fatalf("unexpected error creating demuxer: %v", err)
	}
	p, err := d.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PID != 256 || !p.PUSI || p.AFC != AFCPayloadOnly || p.CC != 5 {
		t.Errorf("unexpected header: %#v", p.Header)
	}
	if !bytes.Equal(p.Payload, body) {
		t.Errorf("unexpected payload")
	}
	if p.Adaptation != nil {
		t.Errorf("unexpected adaptation field on a payload-only packet")
	}
}

func TestDemuxerNextAdaptationWithPCR(t *testing.T) {
	afBody := []byte{
		7,    // adaptation_field_length
		0x10, // PCR_flag set
		0x00, 0x00, 0xC3, 0x50, 0x00, 0x80, // program_clock_reference
	}
	rest := append(afBody, bytes.Repeat([]byte{0xCD}, RawPacketSize-4-len(afBody))...)
	pkt := rawTSPacket(AFCAdaptationAndPayload, 2, rest)

	d, err := NewDemuxer(bytes.NewReader(pkt))
	if err != nil {
		t.Fatalf("unexpected error creating demuxer: %v", err)
	}
	p, err := d.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Adaptation == nil || !p.Adaptation.PCRFlag {
		t.Fatalf("expected a decoded PCR-bearing adaptation field, got %#v", p.Adaptation)
	}
	if p.Adaptation.PCR.Base != 100000 || p.Adaptation.PCR.Extension != 128 {
		t.Errorf("unexpected PCR: %#v", p.Adaptation.PCR)
	}
	if len(p.Payload) != RawPacketSize-4-1-7 {
		t.Errorf("unexpected payload length: got %d want %d", len(p.Payload), RawPacketSize-4-1-7)
	}
}

func TestDemuxerNextBadSync(t *testing.T) {
	good := rawTSPacket(AFCPayloadOnly, 0, nil)
	pkt := rawTSPacket(AFCPayloadOnly, 1, nil)
	pkt[0] = 0x00 // corrupt sync byte of the second packet

	d, err := NewDemuxer(bytes.NewReader(append(good, pkt...)))
	if err != nil {
		t.Fatalf("unexpected error creating demuxer: %v", err)
	}
	if _, err = d.Next(); err != nil {
		t.Fatalf("unexpected error reading the first packet: %v", err)
	}
	_, err = d.Next()
	if err == nil || !errors.Is(err, ErrBadSync) {
		t.Fatalf("expected an error wrapping ErrBadSync, got %v", err)
	}
}

func TestDemuxerNextEOF(t *testing.T) {
	_, err := NewDemuxer(bytes.NewReader(nil))
	if err == nil {
		t.Fatalf("expected an error creating a demuxer over an empty reader")
	}
}

func TestParseAdaptationFieldExtension(t *testing.T) {
	body := []byte{
		0x03,       // extension length
		0x80,       // flags: LTW_flag set
		0x80, 0x00, // LTW_valid_flag set, LTW_offset = 0
	}
	af := []byte{
		byte(1 + len(body)), // adaptation_field_length
		0x01,                // adaptation_field_extension_flag
	}
	af = append(af, body...)

	got, err := parseAdaptationField(af)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AdaptationFieldExtensionFlag || got.Extension == nil {
		t.Fatalf("expected a decoded adaptation field extension, got %#v", got)
	}
	if !got.Extension.LTWFlag || !got.Extension.LTWValidFlag {
		t.Errorf("unexpected extension: %#v", got.Extension)
	}
}
