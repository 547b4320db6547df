/*
NAME
  analyzer_test.go - end-to-end test of Run over a synthetic TS stream.

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
	"bytes"
	"strings"
	"testing"
)

// tsPacket builds one 188-byte transport stream packet carrying payload
// on pid, with the given payload_unit_start_indicator and continuity
// counter. payload is copied to the start of the 184-byte payload area
// and the remainder is stuffed with 0xFF.
func tsPacket(pid uint16, pusi bool, cc byte, payload []byte) []byte {
	pkt := make([]byte, 188)
	pkt[0] = 0x47
	pusiBit := byte(0)
	if pusi {
		pusiBit = 0x40
	}
	pkt[1] = pusiBit | byte(pid>>8)&0x1F
	pkt[2] = byte(pid)
	pkt[3] = 0x10 | (cc & 0x0F) // AFC = payload only
	copy(pkt[4:], payload)
	for i := 4 + len(payload); i < 188; i++ {
		pkt[i] = 0xFF
	}
	return pkt
}

func patPayload() []byte {
	return []byte{
		0x00,       // pointer_field
		0x00,       // table_id
		0xB0, 0x0D, // section_syntax_indicator=1, section_length=13
		0x00, 0x01, // transport_stream_id
		0x01,       // version=0, current_next_indicator=1
		0x00,       // section_number
		0x00,       // last_section_number
		0x00, 0x01, // program_number = 1
		0xE1, 0x00, // reserved + program_map_PID = 256
		0x00, 0x00, 0x00, 0x00, // CRC_32 (not decoded)
	}
}

func pmtPayload() []byte {
	return []byte{
		0x00,       // pointer_field
		0x02,       // table_id
		0xB0, 0x12, // section_syntax_indicator=1, section_length=18
		0x00, 0x01, // program_number
		0x01,       // version=0, current_next_indicator=1
		0x00,       // section_number
		0x00,       // last_section_number
		0xE1, 0x00, // reserved + PCR_PID = 256
		0x00, 0x00, // program_info_length = 0
		0x1b,       // stream_type = H.264 video
		0xE1, 0x01, // reserved + elementary_PID = 257
		0x00, 0x00, // ES_info_length = 0
		0x00, 0x00, 0x00, 0x00, // CRC_32 (not decoded)
	}
}

// videoPayload is a PES packet with no optional header fields beyond the
// mandatory flag bytes, carrying a single Annex-B H.264 slice NAL unit
// (type 5, IDR; first_mb_in_slice=0, slice_type=2 "I").
func videoPayload() []byte {
	return []byte{
		0x00, 0x00, 0x01, // packet_start_code_prefix
		0xE0,       // stream_id (video)
		0x00, 0x00, // PES_packet_length, unbounded
		0x80, // marker bits
		0x00, // PTS_DTS_flags=00, no optional fields
		0x00, // header_data_length = 0
		0x00, 0x00, 0x01, 0x25, 0xB0, // Annex-B start code + slice IDR NAL
	}
}

func TestRunProducesFrameFromVideoPID(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(tsPacket(pidPAT, true, 0, patPayload()))
	stream.Write(tsPacket(256, true, 0, pmtPayload()))
	stream.Write(tsPacket(257, true, 0, videoPayload()))

	var out bytes.Buffer
	err := Run(&stream, &out, Options{Video: true, Name: "test.ts"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xml := out.String()
	for _, want := range []string{
		"<program_association_table>",
		"<program_map_pid>0x100</program_map_pid>",
		"<program_map_table>",
		"<type_name>H.264 Video</type_name>",
		"<frame number=\"0\" name=\"H.264 Video\" packets=\"1\" pid=\"0x101\">",
		"<type>I</type>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("expected xml output to contain %q, got:\n%s", want, xml)
		}
	}
}

// TestRunFlushesMidStreamFrameOnNextPUSI exercises the flush-on-PUSI path
// in handleElementary directly: a second video PUSI packet must force the
// first frame's PES header and slice to be decoded and emitted before the
// second frame starts, not just the final frame at end of stream.
func TestRunFlushesMidStreamFrameOnNextPUSI(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(tsPacket(pidPAT, true, 0, patPayload()))
	stream.Write(tsPacket(256, true, 0, pmtPayload()))
	stream.Write(tsPacket(257, true, 0, videoPayload()))
	stream.Write(tsPacket(257, true, 1, videoPayload()))

	var out bytes.Buffer
	err := Run(&stream, &out, Options{Video: true, Name: "test.ts"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xml := out.String()
	if strings.Count(xml, "<frame ") != 2 {
		t.Fatalf("expected two flushed frames (one mid-stream, one at EOF), got:\n%s", xml)
	}
	if strings.Count(xml, "<type>I</type>") != 2 {
		t.Errorf("expected both frames to have decoded slice type I, got:\n%s", xml)
	}
	if !strings.Contains(xml, "<frame number=\"0\" name=\"H.264 Video\" packets=\"1\" pid=\"0x101\">") {
		t.Errorf("expected the mid-stream frame to be frame 0, got:\n%s", xml)
	}
	if !strings.Contains(xml, "<frame number=\"1\" name=\"H.264 Video\" packets=\"1\" pid=\"0x101\">") {
		t.Errorf("expected the EOF-flushed frame to be frame 1, got:\n%s", xml)
	}
}

func TestRunWithoutVideoOptionClassifiesOnly(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(tsPacket(pidPAT, true, 0, patPayload()))
	stream.Write(tsPacket(256, true, 0, pmtPayload()))
	stream.Write(tsPacket(257, true, 0, videoPayload()))

	var out bytes.Buffer
	err := Run(&stream, &out, Options{Video: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xml := out.String()
	if strings.Contains(xml, "<frame ") {
		t.Errorf("expected no <frame> elements without Video enabled, got:\n%s", xml)
	}
	if !strings.Contains(xml, "<type_name>H.264 Video</type_name>") {
		t.Errorf("expected a classification-only type_name, got:\n%s", xml)
	}
}

func TestRunTerseSuppressesPerPacketDiagnostics(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(tsPacket(pidPAT, true, 0, patPayload()))

	var out bytes.Buffer
	err := Run(&stream, &out, Options{Terse: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xml := out.String()
	if strings.Contains(xml, "<payload_unit_start_indicator>") {
		t.Errorf("expected terse mode to suppress per-packet diagnostics, got:\n%s", xml)
	}
	if !strings.Contains(xml, "<program_association_table>") {
		t.Errorf("expected PAT body even in terse mode, got:\n%s", xml)
	}
}

func TestRunBadSyncReportsErrorAndContinues(t *testing.T) {
	pkt := tsPacket(pidPAT, true, 1, patPayload())
	pkt[0] = 0x00 // corrupt sync byte

	// The first packet is good, so that packet-size detection succeeds.
	var stream bytes.Buffer
	stream.Write(tsPacket(pidPAT, true, 0, patPayload()))
	stream.Write(pkt)
	stream.Write(tsPacket(pidPAT, true, 2, patPayload()))

	var out bytes.Buffer
	err := Run(&stream, &out, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xml := out.String()
	if !strings.Contains(xml, "<error>") {
		t.Errorf("expected a reported error element for the bad-sync packet, got:\n%s", xml)
	}
	if strings.Count(xml, "<program_association_table>") != 2 {
		t.Errorf("expected the following good packet to still be processed, got:\n%s", xml)
	}
}

func TestElementaryAccumulatorGrowsAndCompacts(t *testing.T) {
	a := NewElementaryAccumulator()
	a.Push([]byte{1, 2, 3})
	if a.Len() != 3 {
		t.Fatalf("unexpected length: got %d want 3", a.Len())
	}
	a.Compact(2)
	if a.Len() != 1 || a.Bytes()[0] != 3 {
		t.Errorf("unexpected bytes after compact: %#v", a.Bytes())
	}
	a.Reset()
	if a.Len() != 0 {
		t.Errorf("expected empty accumulator after reset, got length %d", a.Len())
	}
}

func TestStreamTypeName(t *testing.T) {
	cases := []struct {
		st   uint8
		want string
	}{
		{0x02, "MPEG-2 Video"},
		{0x1b, "H.264 Video"},
		{0x50, "ISO 13818-1 reserved"},
		{0xFF, "User Private"},
	}
	for _, c := range cases {
		if got := streamTypeName(c.st); got != c.want {
			t.Errorf("streamTypeName(0x%x) = %q, want %q", c.st, got, c.want)
		}
	}
}
