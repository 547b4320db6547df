/*
DESCRIPTION
  aud.go decodes an access unit delimiter RBSP, specification section
  7.3.2.4.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import "github.com/pkg/errors"

// primaryPicTypeNames maps primary_pic_type to the slice types it
// restricts the primary coded picture to, Table 7-5.
var primaryPicTypeNames = [...]string{
	"I",
	"I, P",
	"I, P, B",
	"SI",
	"SI, SP",
	"I, SI",
	"I, SI, P, SP",
	"I, SI, P, SP, B",
}

// AccessUnitDelimiter is a decoded access unit delimiter RBSP.
type AccessUnitDelimiter struct {
	PrimaryPicType uint8
}

// SliceTypes returns the slice type names this access unit's
// primary_pic_type restricts the picture to.
func (a *AccessUnitDelimiter) SliceTypes() string {
	if int(a.PrimaryPicType) >= len(primaryPicTypeNames) {
		return "reserved"
	}
	return primaryPicTypeNames[a.PrimaryPicType]
}

// NewAccessUnitDelimiter decodes an access unit delimiter RBSP.
func NewAccessUnitDelimiter(rbsp []byte) (*AccessUnitDelimiter, error) {
	if len(rbsp) < 1 {
		return nil, errors.New("h264dec: empty access unit delimiter RBSP")
	}
	return &AccessUnitDelimiter{PrimaryPicType: rbsp[0] >> 5}, nil
}
