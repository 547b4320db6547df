/*
NAME
  descriptor.go - decodes MPEG system descriptors found in PMT sections.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import "github.com/pkg/errors"

// Descriptor tags, ISO/IEC 13818-1 Table 2-39. Tags 19-26 are reserved for
// ISO/IEC 13818-6 and never appear in an MPTS PMT.
const (
	TagVideoStream               = 2
	TagAudioStream                = 3
	TagHierarchy                  = 4
	TagRegistration                = 5
	TagDataStreamAlignment        = 6
	TagTargetBackgroundGrid       = 7
	TagVideoWindow                = 8
	TagCA                         = 9
	TagISO639Language             = 10
	TagSystemClock                = 11
	TagMultiplexBufferUtilization = 12
	TagCopyright                  = 13
	TagMaximumBitrate             = 14
	TagPrivateDataIndicator       = 15
	TagSmoothingBuffer            = 16
	TagSTD                        = 17
	TagIBP                        = 18
	TagMPEG4Video                 = 27
	TagMPEG4Audio                 = 28
	TagIOD                        = 29
	TagSL                         = 30
	TagFMC                        = 31
	TagExternalESID               = 32
	TagMuxCode                    = 33
	TagFmxBufferSize              = 34
	TagMultiplexBuffer            = 35
)

// CUEIFormatIdentifier is the registration_descriptor format_identifier
// value ("CUEI" in ASCII) that marks an elementary stream as carrying
// SCTE-35 splice information.
const CUEIFormatIdentifier = 0x43554549

// ElementDescriptor is implemented by every decoded descriptor type. Tag
// returns the descriptor_tag that produced it.
type ElementDescriptor interface {
	Tag() uint8
}

// VideoStreamDescriptor is a fully decoded video_stream_descriptor, tag 2.
type VideoStreamDescriptor struct {
	MultipleFrameRateFlag    bool
	FrameRateCode            uint8
	MPEG1OnlyFlag            bool
	ConstrainedParameterFlag bool
	StillPictureFlag         bool
	ProfileAndLevelIndication uint8
	ChromaFormat              uint8
	FrameRateExtensionFlag    bool
}

func (*VideoStreamDescriptor) Tag() uint8 { return TagVideoStream }

// AudioStreamDescriptor is a fully decoded audio_stream_descriptor, tag 3.
type AudioStreamDescriptor struct {
	FreeFormatFlag              bool
	ID                          uint8
	Layer                       uint8
	VariableRateAudioIndicator bool
}

func (*AudioStreamDescriptor) Tag() uint8 { return TagAudioStream }

// RegistrationDescriptor is a fully decoded registration_descriptor, tag 5.
type RegistrationDescriptor struct {
	FormatIdentifier             uint32
	AdditionalIdentificationInfo []byte
}

func (*RegistrationDescriptor) Tag() uint8 { return TagRegistration }

// IsSCTE35 reports whether this registration descriptor marks the owning
// stream as carrying SCTE-35 splice information.
func (r *RegistrationDescriptor) IsSCTE35() bool {
	return r.FormatIdentifier == CUEIFormatIdentifier
}

// RawDescriptor is used for every descriptor tag this analyzer does not
// decode in detail; it carries the tag and the undecoded payload bytes so
// callers can still report its presence and length.
type RawDescriptor struct {
	DescriptorTag uint8
	Data          []byte
}

func (r *RawDescriptor) Tag() uint8 { return r.DescriptorTag }

// ReadDescriptors decodes a sequence of descriptors packed back-to-back in
// b (a PMT program_info loop or an element's es_info loop), consuming
// exactly length bytes.
func ReadDescriptors(b []byte, length int) ([]ElementDescriptor, error) {
	if len(b) < length {
		return nil, errors.New("psi: buffer shorter than declared descriptor loop length")
	}
	var out []ElementDescriptor
	p := 0
	for p < length {
		if length-p < 2 {
			return nil, errors.New("psi: truncated descriptor header")
		}
		tag := b[p]
		dlen := int(b[p+1])
		p += 2
		if length-p < dlen {
			return nil, errors.New("psi: descriptor length exceeds remaining loop bytes")
		}
		body := b[p : p+dlen]

		switch tag {
		case TagVideoStream:
			out = append(out, decodeVideoStreamDescriptor(body))
		case TagAudioStream:
			out = append(out, decodeAudioStreamDescriptor(body))
		case TagRegistration:
			d := &RegistrationDescriptor{}
			if len(body) >= 4 {
				d.FormatIdentifier = read4(body)
				d.AdditionalIdentificationInfo = append([]byte(nil), body[4:]...)
			}
			out = append(out, d)
		default:
			out = append(out, &RawDescriptor{DescriptorTag: tag, Data: append([]byte(nil), body...)})
		}

		p += dlen
	}
	return out, nil
}

func decodeVideoStreamDescriptor(b []byte) *VideoStreamDescriptor {
	d := &VideoStreamDescriptor{}
	if len(b) < 1 {
		return d
	}
	b0 := b[0]
	d.MultipleFrameRateFlag = b0&0x80 != 0
	d.FrameRateCode = (b0 & 0x78) >> 3
	d.MPEG1OnlyFlag = b0&0x04 != 0
	d.ConstrainedParameterFlag = b0&0x02 != 0
	d.StillPictureFlag = b0&0x01 != 0

	if !d.MPEG1OnlyFlag && len(b) >= 3 {
		d.ProfileAndLevelIndication = b[1]
		d.ChromaFormat = (b[2] & 0xC0) >> 6
		d.FrameRateExtensionFlag = b[2]&0x10 != 0
	}
	return d
}

func decodeAudioStreamDescriptor(b []byte) *AudioStreamDescriptor {
	d := &AudioStreamDescriptor{}
	if len(b) < 1 {
		return d
	}
	b0 := b[0]
	d.FreeFormatFlag = b0&0x80 != 0
	d.ID = (b0 & 0x40) >> 6
	d.Layer = (b0 & 0x30) >> 4
	d.VariableRateAudioIndicator = b0&0x08 != 0
	return d
}
