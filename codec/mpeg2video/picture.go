/*
DESCRIPTION
  picture.go decodes the MPEG-2 video picture_header and
  picture_coding_extension, ISO/IEC 13818-2 6.2.3, 6.2.3.1.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2video

import "github.com/pkg/errors"

// readPictureHeader decodes a picture_header, 6.2.3, classifying the
// picture's coding type and arming the extension dispatcher to expect a
// picture_coding_extension next.
func (d *Decoder) readPictureHeader(b []byte) (int, Frame, error) {
	if len(b) < 4 {
		return 0, Frame{}, errors.New("mpeg2video: buffer too short for picture header")
	}

	four := read4(b)
	p := 4

	f := Frame{
		TemporalReference: uint16((four & 0xFFC00000) >> 22),
		Type:              FrameType((four & 0x00380000) >> 19),
		VBVDelay:          uint16((four & 0x0007FFF8) >> 3),
	}

	// P and B pictures carry forward/backward motion vector fields that
	// spill one byte past the fixed header; this analyzer does not decode
	// motion vectors, so the byte is only skipped here.
	switch f.Type {
	case FrameTypeP, FrameTypeB:
		if len(b) < p+1 {
			return 0, Frame{}, errors.New("mpeg2video: buffer too short for picture motion vectors")
		}
		p++
	}

	d.nextExtension = extPictureCoding

	return p, f, nil
}

// readPictureCodingExtension decodes a picture_coding_extension, 6.2.3.1.
// None of its fields are currently surfaced on Frame; the handler exists
// so the extension dispatcher always calls a real decoder for every
// start code, rather than skipping past it.
func (d *Decoder) readPictureCodingExtension(b []byte) (int, error) {
	if len(b) < 5 {
		return 0, errors.New("mpeg2video: buffer too short for picture coding extension")
	}
	p := 5 // fixed 4-byte header plus the byte carrying progressive_frame etc.

	if len(b) < p {
		return 0, errors.New("mpeg2video: buffer too short for picture coding extension tail")
	}

	compositeDisplayFlag := b[4]&0x40 != 0
	if compositeDisplayFlag {
		if len(b) < p+2 {
			return 0, errors.New("mpeg2video: buffer too short for composite display")
		}
		p += 2
	}

	return p, nil
}
