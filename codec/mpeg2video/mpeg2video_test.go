/*
DESCRIPTION
  mpeg2video_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2video

import "testing"

func startCode(code byte) []byte {
	return []byte{0x00, 0x00, 0x01, code}
}

func TestParseFramesSequenceAndPicture(t *testing.T) {
	var b []byte
	b = append(b, startCode(SequenceHeaderCode)...)
	b = append(b, 0x12, 0x34, 0x56, 0x78, 0x00, 0xFA, 0x01, 0x90)
	b = append(b, startCode(PictureStartCode)...)
	b = append(b, 0x01, 0x48, 0x03, 0x20)
	b = append(b, startCode(SliceStartCodeBegin)...)
	b = append(b, 0xDE, 0xAD, 0xBE, 0xEF)
	b = append(b, startCode(SequenceEndCode)...)

	d := NewDecoder()
	n, err := d.ParseFrames(b, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 20; n != want {
		t.Errorf("unexpected bytes consumed: got %d want %d", n, want)
	}
	if len(d.Frames) != 1 {
		t.Fatalf("unexpected frame count: got %d want 1", len(d.Frames))
	}

	f := d.Frames[0]
	if f.Type != FrameTypeI {
		t.Errorf("unexpected frame type: got %v want %v", f.Type, FrameTypeI)
	}
	if f.TemporalReference != 5 {
		t.Errorf("unexpected temporal reference: got %d want 5", f.TemporalReference)
	}
	if f.VBVDelay != 100 {
		t.Errorf("unexpected VBV delay: got %d want 100", f.VBVDelay)
	}
	if f.ClosedGOP || f.BrokenLink {
		t.Errorf("unexpected GOP flags with no GOP header: ClosedGOP=%v BrokenLink=%v", f.ClosedGOP, f.BrokenLink)
	}

	if d.Sequence == nil {
		t.Fatal("expected a decoded sequence header")
	}
	want := &SequenceHeader{
		HorizontalSize:         291,
		VerticalSize:           1110,
		AspectRatioInformation: 7,
		FrameRateCode:          8,
		BitRateValue:           1000,
		VBVBufferSize:          50,
	}
	got := d.Sequence
	if got.HorizontalSize != want.HorizontalSize || got.VerticalSize != want.VerticalSize ||
		got.AspectRatioInformation != want.AspectRatioInformation || got.FrameRateCode != want.FrameRateCode ||
		got.BitRateValue != want.BitRateValue || got.VBVBufferSize != want.VBVBufferSize ||
		got.ConstrainedParameters || got.LoadIntraQuantMatrix {
		t.Errorf("unexpected sequence header:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestParseFramesStopsAtSequenceEnd(t *testing.T) {
	var b []byte
	b = append(b, startCode(PictureStartCode)...)
	b = append(b, 0x01, 0x48, 0x03, 0x20)
	b = append(b, startCode(SequenceEndCode)...)

	d := NewDecoder()
	_, err := d.ParseFrames(b, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Frames) != 1 {
		t.Fatalf("unexpected frame count: got %d want 1", len(d.Frames))
	}
}

func TestParseFramesGOPFlagsCarryToFrame(t *testing.T) {
	var b []byte
	b = append(b, startCode(GroupStartCode)...)
	b = append(b, 0x00, 0x18, 0x1C, 0xC0)
	b = append(b, startCode(PictureStartCode)...)
	b = append(b, 0x01, 0x48, 0x03, 0x20)

	d := NewDecoder()
	_, err := d.ParseFrames(b, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.GOP == nil {
		t.Fatal("expected a decoded GOP header")
	}
	if d.GOP.TimeCode != 12345 || !d.GOP.ClosedGOP || d.GOP.BrokenLink {
		t.Errorf("unexpected GOP header: %#v", d.GOP)
	}
	if len(d.Frames) != 1 {
		t.Fatalf("unexpected frame count: got %d want 1", len(d.Frames))
	}
	if !d.Frames[0].ClosedGOP || d.Frames[0].BrokenLink {
		t.Errorf("unexpected frame GOP flags: ClosedGOP=%v BrokenLink=%v", d.Frames[0].ClosedGOP, d.Frames[0].BrokenLink)
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := []struct {
		ft   FrameType
		want string
	}{
		{FrameTypeI, "I"},
		{FrameTypeP, "P"},
		{FrameTypeB, "B"},
		{FrameTypeD, "D"},
		{FrameTypeReserved, "reserved"},
		{FrameType(99), "reserved"},
	}
	for _, test := range tests {
		if got := test.ft.String(); got != test.want {
			t.Errorf("FrameType(%d).String(): got %q want %q", test.ft, got, test.want)
		}
	}
}
