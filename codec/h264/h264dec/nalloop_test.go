/*
DESCRIPTION
  nalloop_test.go provides testing for functionality in nalloop.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitAnnexB(t *testing.T) {
	b := []byte{
		0x00, 0x00, 0x01, 0x09, 0x20, // 3-byte start code
		0x00, 0x00, 0x00, 0x01, 0xAA, 0xBB, // 4-byte start code
	}
	want := [][]byte{
		{0x09, 0x20},
		{0xAA, 0xBB},
	}
	got := SplitAnnexB(b)
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected split:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestSplitAnnexBNoStartCode(t *testing.T) {
	if got := SplitAnnexB([]byte{0x01, 0x02, 0x03}); got != nil {
		t.Errorf("expected nil for a buffer with no start code, got %#v", got)
	}
}

func TestStreamParseNALAccessUnitDelimiter(t *testing.T) {
	s := NewStream()
	u, err := s.ParseNAL([]byte{0x09, 0x20}) // type=9 (AUD), primary_pic_type=1
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.NAL.Type != naluTypeAccessUnitDelimiter {
		t.Fatalf("unexpected NAL type: got %d want %d", u.NAL.Type, naluTypeAccessUnitDelimiter)
	}
	if u.AUD == nil || u.AUD.PrimaryPicType != 1 {
		t.Errorf("unexpected AUD: %#v", u.AUD)
	}
}

func TestStreamParseNALSEI(t *testing.T) {
	s := NewStream()
	u, err := s.ParseNAL([]byte{0x06, 0x80}) // type=6 (SEI), rbsp_trailing_bits only
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.SEIMessages) != 0 {
		t.Errorf("unexpected SEI message count: got %d want 0", len(u.SEIMessages))
	}
}

func TestStreamParseNALSliceIDR(t *testing.T) {
	s := NewStream()
	nal := []byte{0x25} // type=5 (slice IDR)
	rbsp, err := binToSlice("1" + // ue(v) first_mb_in_slice = 0
		"1" + // ue(v) slice_type = 0 (P)
		"000000")
	if err != nil {
		t.Fatalf("did not expect error %v from binToSlice", err)
	}
	nal = append(nal, rbsp...)

	u, err := s.ParseNAL(nal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.IsIDR {
		t.Error("expected IsIDR to be true for a type 5 NAL unit")
	}
	if u.SliceHeader == nil || u.SliceHeader.FirstMbInSlice != 0 {
		t.Errorf("unexpected slice header: %#v", u.SliceHeader)
	}
}

func TestStreamParseNALAuxCodedPictureNoPart(t *testing.T) {
	s := NewStream()
	nal := []byte{0x13} // type=19 (auxiliary coded picture without partitioning)
	rbsp, err := binToSlice("1" + // ue(v) first_mb_in_slice = 0
		"1" + // ue(v) slice_type = 0 (P)
		"000000")
	if err != nil {
		t.Fatalf("did not expect error %v from binToSlice", err)
	}
	nal = append(nal, rbsp...)

	u, err := s.ParseNAL(nal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.IsIDR {
		t.Error("expected IsIDR to be false for a type 19 NAL unit")
	}
	if u.SliceHeader == nil || u.SliceHeader.FirstMbInSlice != 0 {
		t.Errorf("unexpected slice header: %#v", u.SliceHeader)
	}
}
