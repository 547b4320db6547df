/*
NAME
  packetsize.go - detects the on-disk packet size of an MPEG-TS file.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import "github.com/pkg/errors"

// SyncByte is the fixed first octet of every MPEG-TS packet header.
const SyncByte = 0x47

// RawPacketSize is the on-disk size of a packet in a plain 188-byte-aligned
// transport stream.
const RawPacketSize = 188

// TimestampedPacketSize is the on-disk size of a packet in a transport
// stream that carries a 4-byte timestamp prefix ahead of each 188-byte
// packet, as produced by some DVRs and capture devices.
const TimestampedPacketSize = 192

// ErrUnknownPacketSize is returned by DetectPacketSize when neither a
// 188-byte nor a 192-byte framing is recognised from the leading bytes.
var ErrUnknownPacketSize = errors.New("mts: could not determine packet size")

// DetectPacketSize inspects the first few bytes of a transport stream and
// reports the on-disk size of each packet: 188 if the sync byte is found at
// offset 0, or 192 if it is found at offset 4 (indicating a 4-byte
// timestamp prefix before each packet). Any other arrangement is treated as
// a fatal framing error, since the rest of the stream cannot be segmented
// without knowing the packet size.
func DetectPacketSize(lead []byte) (int, error) {
	if len(lead) < 5 {
		return 0, errors.Wrap(ErrUnknownPacketSize, "not enough leading bytes")
	}
	switch {
	case lead[0] == SyncByte:
		return RawPacketSize, nil
	case lead[4] == SyncByte:
		return TimestampedPacketSize, nil
	default:
		return 0, ErrUnknownPacketSize
	}
}
