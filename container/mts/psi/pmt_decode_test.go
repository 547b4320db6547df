/*
NAME
  pmt_decode_test.go

DESCRIPTION
  pmt_decode_test.go provides testing for functionality in pmt_decode.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadPMT(t *testing.T) {
	b := []byte{
		0x00,       // pointer_field
		0x02,       // table_id
		0xB0, 0x12, // section_syntax_indicator=1, section_length=18
		0x00, 0x01, // program_number
		0x01,       // version=0, current_next_indicator=1
		0x00,       // section_number
		0x00,       // last_section_number
		0xE1, 0x00, // reserved + PCR_PID = 256
		0x00, 0x00, // program_info_length = 0
		0x86,       // stream_type = SCTE-35
		0xE2, 0x00, // reserved + elementary_PID = 512
		0x00, 0x00, // ES_info_length = 0
		0x00, 0x00, 0x00, 0x00, // CRC_32 (not decoded)
	}

	pmt, err := ReadPMT(b, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &PMTTable{
		TableID:                2,
		SectionSyntaxIndicator: true,
		SectionLength:          18,
		ProgramNumber:          1,
		VersionNumber:          0,
		CurrentNextIndicator:   true,
		PCRPID:                 256,
		Elements: []PMTElement{
			{StreamType: SCTE35StreamType, ElementaryPID: 512, IsSCTE35: true},
		},
	}
	if !cmp.Equal(pmt, want) {
		t.Errorf("unexpected PMT:\ngot:  %#v\nwant: %#v", pmt, want)
	}
}

func TestReadPMTSCTE35ViaRegistrationDescriptor(t *testing.T) {
	b := []byte{
		0x00,
		0x02,
		0xB0, 0x18,
		0x00, 0x01,
		0x01,
		0x00,
		0x00,
		0xE1, 0x00,
		0x00, 0x00,
		0x06,       // stream_type, not the raw SCTE-35 value
		0xE3, 0x00, // elementary_PID = 768
		0x00, 0x06, // ES_info_length = 6
		0x05, 0x04, 0x43, 0x55, 0x45, 0x49, // registration_descriptor, "CUEI"
		0x00, 0x00, 0x00, 0x00,
	}

	pmt, err := ReadPMT(b, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pmt.Elements) != 1 || !pmt.Elements[0].IsSCTE35 {
		t.Errorf("expected element to be marked SCTE-35 via its registration descriptor: %#v", pmt.Elements)
	}
}

func TestReadPMTTruncated(t *testing.T) {
	_, err := ReadPMT([]byte{0x00, 0x02, 0x01}, true)
	if err == nil {
		t.Fatal("expected an error decoding a truncated PMT header")
	}
}
