/*
DESCRIPTION
  slice.go skips an MPEG-2 video slice, ISO/IEC 13818-2 6.2.4.
  Macroblock-level decode is out of scope; a slice is recognised and
  skipped to the next start code without decoding its contents.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2video

// readSlice advances past a slice's payload to the next start code. The
// slice_vertical_position is already carried in the start code byte
// dispatched by ParseFrames, so nothing further is read here.
func readSlice(b []byte) (int, error) {
	return skipToNextStartCode(b), nil
}
