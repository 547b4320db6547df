/*
NAME
  pat_decode_test.go

DESCRIPTION
  pat_decode_test.go provides testing for functionality in pat_decode.go.

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

func TestReadPAT(t *testing.T) {
	b := []byte{
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

	pat, err := ReadPAT(b, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &PATTable{
		TableID:                0,
		SectionSyntaxIndicator: true,
		SectionLength:          13,
		TransportStreamID:      1,
		VersionNumber:          0,
		CurrentNextIndicator:   true,
		Programs: []PATProgram{
			{ProgramNumber: 1, ProgramMapPID: 256},
		},
	}
	if !cmp.Equal(pat, want) {
		t.Errorf("unexpected PAT:\ngot:  %#v\nwant: %#v", pat, want)
	}
}

func TestReadPATNetworkPID(t *testing.T) {
	b := []byte{
		0x00, // table_id (no pointer field, pusi=false)
		0xB0, 0x0D,
		0x00, 0x01,
		0x01,
		0x00,
		0x00,
		0x00, 0x00, // program_number = 0 -> network PID
		0xE0, 0x10, // PID = 16
		0x00, 0x00, 0x00, 0x00,
	}

	pat, err := ReadPAT(b, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pat.Programs) != 1 || pat.Programs[0].NetworkPID != 16 {
		t.Errorf("unexpected programs: %#v", pat.Programs)
	}
}

func TestReadPATTruncated(t *testing.T) {
	_, err := ReadPAT([]byte{0x00, 0x00, 0x01}, false)
	if err == nil {
		t.Fatal("expected an error decoding a truncated PAT header")
	}
}
