/*
DESCRIPTION
  gop.go decodes the MPEG-2 video group_of_pictures_header, ISO/IEC
  13818-2 6.2.2.6.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2video

import "github.com/pkg/errors"

// GroupOfPictures is a decoded group_of_pictures_header.
type GroupOfPictures struct {
	TimeCode   uint32
	ClosedGOP  bool
	BrokenLink bool
}

// readGroupOfPictures decodes a group_of_pictures_header and arms the
// extension dispatcher to expect the extension_and_user_data that
// follows a GOP.
func (d *Decoder) readGroupOfPictures(b []byte) (int, *GroupOfPictures, error) {
	if len(b) < 4 {
		return 0, nil, errors.New("mpeg2video: buffer too short for group of pictures header")
	}

	four := read4(b)
	gop := &GroupOfPictures{
		TimeCode:   (four & 0xFFFFFF80) >> 7,
		ClosedGOP:  four&0x00000040 != 0,
		BrokenLink: four&0x00000020 != 0,
	}

	d.nextExtension = extAndUserData1

	return 4, gop, nil
}
