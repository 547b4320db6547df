/*
DESCRIPTION
  sequence.go decodes the MPEG-2 video sequence_header and its
  extensions, ISO/IEC 13818-2 6.2.2.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2video

import "github.com/pkg/errors"

// SequenceHeader is a decoded sequence_header, 6.2.2.1, together with the
// profile/level, progressive, chroma format and low-delay fields of the
// sequence_extension, 6.2.2.3, when present. The extension's size and
// bit-rate bits are not merged into HorizontalSize, VerticalSize or
// BitRateValue.
type SequenceHeader struct {
	HorizontalSize uint32
	VerticalSize   uint32

	AspectRatioInformation uint8
	FrameRateCode          uint8

	BitRateValue           uint32
	VBVBufferSize          uint16
	ConstrainedParameters  bool
	LoadIntraQuantMatrix   bool
	LoadNonIntraQuantMatrix bool

	// Extension fields, populated once a sequence_extension has been seen.
	ProfileAndLevelIndication uint8
	ProgressiveSequence       bool
	ChromaFormat              uint8
	LowDelay                  bool
}

// readSequenceHeader decodes a sequence_header starting immediately after
// its start code, and arms the extension dispatcher to expect a
// sequence_extension next.
func (d *Decoder) readSequenceHeader(b []byte) (int, *SequenceHeader, error) {
	if len(b) < 8 {
		return 0, nil, errors.New("mpeg2video: buffer too short for sequence header")
	}

	sh := &SequenceHeader{}

	four := read4(b)
	sh.HorizontalSize = (four & 0xFFF00000) >> 20
	sh.VerticalSize = (four & 0x000FFF00) >> 8
	sh.AspectRatioInformation = uint8((four & 0xF0) >> 4)
	sh.FrameRateCode = uint8(four & 0x0F)

	p := 4
	four = read4(b[p:])

	sh.BitRateValue = (four & 0xFFFFC000) >> 14
	sh.VBVBufferSize = uint16((four & 0x1FF8) >> 3)
	sh.ConstrainedParameters = four&0x4 != 0
	sh.LoadIntraQuantMatrix = four&0x2 != 0

	p += 4

	var loadNonIntra uint32
	if sh.LoadIntraQuantMatrix {
		p += 63
		if len(b) < p+1 {
			return 0, nil, errors.New("mpeg2video: buffer too short for intra quantizer matrix")
		}
		loadNonIntra = uint32(b[p]) & 0x1
		p++
	} else {
		loadNonIntra = four & 0x1
	}
	sh.LoadNonIntraQuantMatrix = loadNonIntra != 0

	if sh.LoadNonIntraQuantMatrix {
		p += 64
	}

	d.nextExtension = extSequence

	return p, sh, nil
}

// readSequenceExtension decodes a sequence_extension, 6.2.2.3, merging its
// fields into sh.
func (d *Decoder) readSequenceExtension(b []byte, sh *SequenceHeader) (int, error) {
	if len(b) < 5 {
		return 0, errors.New("mpeg2video: buffer too short for sequence extension")
	}

	four := read4(b)

	if sh != nil {
		sh.ProfileAndLevelIndication = uint8((four & 0x0FF00000) >> 20)
		sh.ProgressiveSequence = four&0x00080000 != 0
		sh.ChromaFormat = uint8((four & 0x00060000) >> 17)
	}

	p := 4
	// vbv_buffer_size_extension byte
	p++

	if len(b) < p+1 {
		return 0, errors.New("mpeg2video: buffer too short for sequence extension tail")
	}
	byte1 := b[p]
	p++

	if sh != nil {
		sh.LowDelay = byte1&0x80 != 0
	}

	return p, nil
}

// readSequenceDisplayExtension decodes a sequence_display_extension,
// 6.2.2.4. Its fields describe display geometry only and are not
// retained on SequenceHeader.
func readSequenceDisplayExtension(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, errors.New("mpeg2video: buffer too short for sequence display extension")
	}
	colourDescription := b[0]&0x01 != 0
	p := 1

	if colourDescription {
		if len(b) < p+3 {
			return 0, errors.New("mpeg2video: buffer too short for colour description")
		}
		p += 3
	}

	if len(b) < p+4 {
		return 0, errors.New("mpeg2video: buffer too short for display size")
	}
	p += 4

	return p, nil
}

// readSequenceScalableExtension decodes a sequence_scalable_extension,
// 6.2.2.5. This analyzer does not decode scalable streams in detail; the
// handler exists so the extension dispatcher has a real target to call,
// matching every other start code in the table.
func readSequenceScalableExtension(b []byte) (int, error) {
	return 0, nil
}

// readExtensionAndUserData0 dispatches the extension_and_user_data that
// follows a sequence_extension, 6.2.2.2.1: either a
// sequence_display_extension or a sequence_scalable_extension, selected
// by the extension identifier in the top nibble of the next byte.
func (d *Decoder) readExtensionAndUserData0(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, errors.New("mpeg2video: buffer too short for extension_and_user_data_0")
	}
	id := (b[0] & 0xF0) >> 4

	switch id {
	case SequenceDisplayExtensionID:
		return readSequenceDisplayExtension(b)
	case SequenceScalableExtensionID:
		return readSequenceScalableExtension(b)
	default:
		return 0, nil
	}
}

// readExtension dispatches an extension_start_code payload to the
// handler selected by the decoder's current extension state, and
// advances that state per the diagram in 6.2.2 Video Sequence.
func (d *Decoder) readExtension(b []byte) (int, error) {
	switch d.nextExtension {
	case extSequence:
		n, err := d.readSequenceExtension(b, d.Sequence)
		d.nextExtension = extAndUserData0
		return n, err

	case extPictureCoding:
		n, err := d.readPictureCodingExtension(b)
		d.nextExtension = extAndUserData2
		return n, err

	case extAndUserData0:
		n, err := d.readExtensionAndUserData0(b)
		// The next extension can be either extAndUserData1 (follows a
		// GOP) or extAndUserData2 (follows a picture_coding_extension);
		// neither is known yet.
		d.nextExtension = extUnknown
		return n, err

	case extAndUserData1, extAndUserData2:
		return 0, nil

	default:
		return 0, nil
	}
}
