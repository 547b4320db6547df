/*
NAME
  streamtypes.go - the Table 2-34 stream_type to human-readable-name map.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package analyzer

// streamTypeNames maps a PMT stream_type value (Table 2-34) to the name
// rendered in the XML PID summary. Values in [0x32, 0x7E] are reserved
// and are handled separately by streamTypeName, rather than being listed
// here one by one.
var streamTypeNames = map[uint8]string{
	0x00: "Reserved",
	0x01: "MPEG-1 Video",
	0x02: "MPEG-2 Video",
	0x03: "MPEG-1 Audio",
	0x04: "MPEG-2 Audio",
	0x05: "ISO 13818-1 private sections",
	0x06: "ISO 13818-1 PES private data",
	0x07: "ISO 13522 MHEG",
	0x08: "ISO 13818-1 DSM-CC",
	0x09: "ISO 13818-1 auxiliary",
	0x0a: "ISO 13818-6 multi-protocol encap",
	0x0b: "ISO 13818-6 DSM-CC U-N msgs",
	0x0c: "ISO 13818-6 stream descriptors",
	0x0d: "ISO 13818-6 sections",
	0x0e: "ISO 13818-1 auxiliary",
	0x0f: "MPEG-2 AAC Audio",
	0x10: "MPEG-4 Video",
	0x11: "MPEG-4 LATM AAC Audio",
	0x12: "MPEG-4 generic",
	0x13: "ISO 14496-1 SL-packetized",
	0x14: "ISO 13818-6 Synchronized Download Protocol",
	0x15: "Metadata carried in PES packets",
	0x16: "Metadata carried in metadata_sections",
	0x17: "Metadata carried in ISO/IEC 13818-6 Data Carousel",
	0x18: "Metadata carried in ISO/IEC 13818-6 Object Carousel",
	0x19: "Metadata carried in ISO/IEC 13818-6 Synchronized Download Protocol",
	0x1a: "IPMP stream",
	0x1b: "H.264 Video",
	0x1c: "ISO/IEC 14496-3 Audio",
	0x1d: "ISO/IEC 14496-17 Text",
	0x1e: "Auxiliary video stream",
	0x1f: "SVC video sub-bitstream of an AVC video stream",
	0x20: "MVC video sub-bitstream of an AVC video stream",
	0x21: "Video stream Rec. ITU-T T.800 | ISO/IEC 15444-1",
	0x22: "Video stream for stereoscopic 3D services H.262",
	0x23: "Video stream for stereoscopic 3D services H.264",
	0x24: "HEVC video bitstream",
	0x25: "HEVC video bitstream of profile in Annex A",
	0x26: "AVC MVCD video sub-bitstream",
	0x27: "Timeline and External Media Information Stream",
	0x28: "HEVC Annex G profile TemporalID0",
	0x29: "HEVC Annex G profile",
	0x2a: "HEVC Annex H profile TemporalID0",
	0x2b: "HEVC Annex H profile",
	0x2c: "Green access units carried in MPEG-2 sections",
	0x2d: "ISO/IEC 23008-3 Audio with MHAS transport syntax - main stream",
	0x2e: "ISO/IEC 23008-3 Audio with MHAS transport syntax - auxiliary stream",
	0x2f: "Quality access units carried in sections",
	0x30: "Media Orchestration Access Units carried in sections",
	0x31: "HEVC Motion Constrained Tile Set, parameter sets, slice headers",
	0x7f: "IPMP Stream",
	0x80: "DigiCipher II Video",
	0x81: "A52 / AC-3 Audio",
	0x82: "HDMV DTS Audio",
	0x83: "LPCM Audio",
	0x84: "SDDS Audio",
	0x85: "ATSC Program ID",
	0x86: "DTS-HD Audio",
	0x87: "E-AC-3 Audio",
	0x8a: "DTS Audio",
	0x91: "A52b / AC-3 Audio",
	0x92: "DVD_SPU vls Subtitle",
	0x94: "SDDS Audio",
	0xa0: "MSCODEC Video",
	0xea: "Private ES (VC-1)",
}

// streamTypeName returns the human-readable name of stream_type st,
// falling back to the Table 2-34 reserved/user-private ranges.
func streamTypeName(st uint8) string {
	if name, ok := streamTypeNames[st]; ok {
		return name
	}
	if st >= 0x32 && st <= 0x7e {
		return "ISO 13818-1 reserved"
	}
	return "User Private"
}

// streamKind classifies a stream_type for frame-level analysis purposes.
type streamKind int

const (
	kindOther streamKind = iota
	kindMPEG2Video
	kindH264Video
)

// stream_type values for the two video codecs this analyzer can decode
// down to the frame level, Table 2-34.
const (
	streamTypeMPEG2Video = 0x02
	streamTypeH264Video  = 0x1b
)

func classifyStream(st uint8) streamKind {
	switch st {
	case streamTypeMPEG2Video:
		return kindMPEG2Video
	case streamTypeH264Video:
		return kindH264Video
	default:
		return kindOther
	}
}
