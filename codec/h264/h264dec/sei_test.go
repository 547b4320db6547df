/*
DESCRIPTION
  sei_test.go provides testing for functionality in sei.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import "testing"

func TestParseSEIMessagesTrailingBits(t *testing.T) {
	msgs, err := ParseSEIMessages([]byte{0x80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("unexpected message count: got %d want 0", len(msgs))
	}
}

func TestParseSEIMessagesUnrecognisedAndRecoveryPoint(t *testing.T) {
	rbsp := []byte{
		0xFF, 10, // payload_type = 255 + 10 = 265, unrecognised
		2, 0xAA, 0xBB, // payload_size = 2, 2 bytes of payload
		6,          // payload_type = 6, recovery point
		1,          // payload_size = 1
		0xD0,       // recovery_frame_cnt=0 exact_match=1 broken_link=0 changing_slice_group_idc=2
	}
	msgs, err := ParseSEIMessages(rbsp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("unexpected message count: got %d want 2", len(msgs))
	}

	m0 := msgs[0]
	if m0.PayloadType != 265 || m0.PayloadSize != 2 || m0.Payload != nil {
		t.Errorf("unexpected first message: %#v", m0)
	}

	m1 := msgs[1]
	if m1.PayloadType != SEIPayloadTypeRecoveryPoint || m1.PayloadSize != 1 {
		t.Fatalf("unexpected second message: %#v", m1)
	}
	want := &RecoveryPointSEI{
		RecoveryFrameCnt:      0,
		ExactMatchFlag:        true,
		BrokenLinkFlag:        false,
		ChangingSliceGroupIDC: 2,
	}
	got := m1.Payload
	if got == nil || *got != *want {
		t.Errorf("unexpected recovery point payload: got %#v want %#v", got, want)
	}
}

func TestParseSEIMessagesTruncated(t *testing.T) {
	_, err := ParseSEIMessages([]byte{6, 5, 0x01}) // payload_size=5 but only 1 byte follows
	if err == nil {
		t.Fatal("expected an error for a truncated SEI payload")
	}
}
