/*
DESCRIPTION
  aud_test.go provides testing for functionality in aud.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import "testing"

func TestNewAccessUnitDelimiter(t *testing.T) {
	tests := []struct {
		in   []byte
		want *AccessUnitDelimiter
		err  bool
	}{
		{
			in:   []byte{0x20}, // 001 0 0000 -> primary_pic_type = 1
			want: &AccessUnitDelimiter{PrimaryPicType: 1},
		},
		{
			in:   []byte{},
			err:  true,
		},
	}

	for i, test := range tests {
		a, err := NewAccessUnitDelimiter(test.in)
		if (err != nil) != test.err {
			t.Fatalf("unexpected error state for test %d: %v", i, err)
		}
		if test.err {
			continue
		}
		if a.PrimaryPicType != test.want.PrimaryPicType {
			t.Errorf("unexpected result for test %d: got %#v want %#v", i, a, test.want)
		}
	}
}

func TestAccessUnitDelimiterSliceTypes(t *testing.T) {
	tests := []struct {
		picType uint8
		want    string
	}{
		{0, "I"},
		{1, "I, P"},
		{7, "I, SI, P, SP, B"},
		{8, "reserved"},
	}

	for _, test := range tests {
		a := &AccessUnitDelimiter{PrimaryPicType: test.picType}
		if got := a.SliceTypes(); got != test.want {
			t.Errorf("SliceTypes() for picType %d: got %q want %q", test.picType, got, test.want)
		}
	}
}
