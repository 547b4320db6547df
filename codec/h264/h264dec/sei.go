/*
DESCRIPTION
  sei.go decodes supplemental enhancement information messages,
  specification Annex D. Only the recovery point message (payload type
  6) is decoded in detail; every other payload type is recognised and
  skipped by its declared size.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"bytes"

	"github.com/ausocean/av/codec/h264/h264dec/bits"
	"github.com/pkg/errors"
)

// SEI payload types this analyzer recognises, D.1.
const (
	SEIPayloadTypeRecoveryPoint = 6
)

// RecoveryPointSEI is a decoded recovery point SEI message, D.1.7/D.2.7.
type RecoveryPointSEI struct {
	RecoveryFrameCnt        int
	ExactMatchFlag          bool
	BrokenLinkFlag          bool
	ChangingSliceGroupIDC   uint8
}

// SEIMessage is one decoded SEI message within an SEI NAL unit's RBSP.
// Payload is populated only for recognised payload types.
type SEIMessage struct {
	PayloadType int
	PayloadSize int
	Payload     *RecoveryPointSEI
}

// ParseSEIMessages decodes every SEI message packed into an SEI NAL
// unit's RBSP, D.1.
func ParseSEIMessages(rbsp []byte) ([]*SEIMessage, error) {
	var msgs []*SEIMessage
	p := 0

	for p < len(rbsp) {
		// rbsp_trailing_bits: a 0x80 byte where the next message would
		// start marks the end of the SEI RBSP, not another message. A
		// zero byte there is read as payload type 0.
		if rbsp[p] == 0x80 {
			break
		}

		payloadType := 0
		for p < len(rbsp) && rbsp[p] == 0xFF {
			payloadType += 255
			p++
		}
		if p >= len(rbsp) {
			return nil, errors.New("h264dec: truncated SEI payload type")
		}
		payloadType += int(rbsp[p])
		p++

		payloadSize := 0
		for p < len(rbsp) && rbsp[p] == 0xFF {
			payloadSize += 255
			p++
		}
		if p >= len(rbsp) {
			return nil, errors.New("h264dec: truncated SEI payload size")
		}
		payloadSize += int(rbsp[p])
		p++

		if len(rbsp) < p+payloadSize {
			return nil, errors.New("h264dec: SEI payload size exceeds RBSP")
		}
		payload := rbsp[p : p+payloadSize]
		p += payloadSize

		msg := &SEIMessage{PayloadType: payloadType, PayloadSize: payloadSize}

		if payloadType == SEIPayloadTypeRecoveryPoint {
			rp, err := parseRecoveryPointSEI(payload)
			if err != nil {
				return nil, errors.Wrap(err, "could not parse recovery point SEI")
			}
			msg.Payload = rp
		}

		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func parseRecoveryPointSEI(payload []byte) (*RecoveryPointSEI, error) {
	br := bits.NewBitReader(bytes.NewReader(payload))
	r := newFieldReader(br)

	rp := &RecoveryPointSEI{
		RecoveryFrameCnt:      int(r.readUe()),
		ExactMatchFlag:        r.readBits(1) == 1,
		BrokenLinkFlag:        r.readBits(1) == 1,
		ChangingSliceGroupIDC: uint8(r.readBits(2)),
	}

	if r.err() != nil {
		return nil, errors.Wrap(r.err(), "fieldReader error")
	}
	return rp, nil
}
