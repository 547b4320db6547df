/*
DESCRIPTION
  slicehdr.go decodes the first two fields of a slice header --
  first_mb_in_slice and slice_type, section 7.3.3 -- which is all this
  analyzer needs to classify a slice without decoding macroblock data.
  The full slice header syntax (reference picture list modification,
  prediction weight tables, reference picture marking, and beyond) is
  part of SliceContext's macroblock-level decode in slice.go and is not
  exercised here.

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

// NewSliceHeader decodes first_mb_in_slice and slice_type from a slice
// RBSP and returns them on a SliceHeader. Every other field is left
// zero-valued.
func NewSliceHeader(rbsp []byte) (*SliceHeader, error) {
	br := bits.NewBitReader(bytes.NewReader(rbsp))
	r := newFieldReader(br)

	h := &SliceHeader{
		FirstMbInSlice: int(r.readUe()),
		SliceType:      int(r.readUe()),
	}

	if r.err() != nil {
		return nil, errors.Wrap(r.err(), "fieldReader error")
	}
	return h, nil
}

// SliceTypeName returns the slice type name (Table 7-6) for h, or
// "reserved" if slice_type is out of range.
func (h *SliceHeader) SliceTypeName() string {
	name, ok := sliceTypeMap[h.SliceType]
	if !ok {
		return "reserved"
	}
	return name
}
