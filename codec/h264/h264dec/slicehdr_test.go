/*
DESCRIPTION
  slicehdr_test.go provides testing for functionality in slicehdr.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import "testing"

func TestNewSliceHeader(t *testing.T) {
	in, err := binToSlice("1" + // ue(v) first_mb_in_slice = 0
		"011" + // ue(v) slice_type = 2 (I)
		"0000") // padding
	if err != nil {
		t.Fatalf("did not expect error %v from binToSlice", err)
	}

	h, err := NewSliceHeader(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.FirstMbInSlice != 0 {
		t.Errorf("unexpected FirstMbInSlice: got %d want 0", h.FirstMbInSlice)
	}
	if h.SliceType != 2 {
		t.Errorf("unexpected SliceType: got %d want 2", h.SliceType)
	}
	if want := "I"; h.SliceTypeName() != want {
		t.Errorf("unexpected SliceTypeName: got %q want %q", h.SliceTypeName(), want)
	}
}

func TestSliceHeaderSliceTypeNameReserved(t *testing.T) {
	h := &SliceHeader{SliceType: 99}
	if want := "reserved"; h.SliceTypeName() != want {
		t.Errorf("unexpected SliceTypeName: got %q want %q", h.SliceTypeName(), want)
	}
}
