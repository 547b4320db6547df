/*
NAME
  pat_decode.go - decodes a Program Association Table section.

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

// PATProgram is one program_number/PID association carried in a PAT
// section, ISO/IEC 13818-1 2.4.4.3. A program_number of 0 designates the
// network PID rather than a program map PID.
type PATProgram struct {
	ProgramNumber uint16
	// NetworkPID is set when ProgramNumber == 0.
	NetworkPID uint16
	// ProgramMapPID is set when ProgramNumber != 0.
	ProgramMapPID uint16
}

// PATTable is a fully decoded Program Association Table section.
type PATTable struct {
	PointerField          uint8
	TableID                uint8
	SectionSyntaxIndicator bool
	SectionLength          uint16
	TransportStreamID      uint16
	VersionNumber          uint8
	CurrentNextIndicator   bool
	SectionNumber          uint8
	LastSectionNumber      uint8
	Programs               []PATProgram
}

// ReadPAT decodes a Program Association Table section from b, which must
// begin at the start of a PID-0 packet's payload. pusi indicates whether
// this payload begins with the pointer_field byte (payload_unit_start_indicator
// was set on the carrying packet), per 2.4.4.1.
func ReadPAT(b []byte, pusi bool) (*PATTable, error) {
	pat := &PATTable{}
	p := 0

	if pusi {
		if len(b) < 1 {
			return nil, errors.New("psi: buffer too short for PAT pointer field")
		}
		pat.PointerField = b[0]
		p = 1 + int(pat.PointerField)
	}

	if len(b) < p+8 {
		return nil, errors.New("psi: buffer too short for PAT header")
	}

	pat.TableID = b[p]
	p++

	secLen := read2(b[p:])
	p += 2
	pat.SectionSyntaxIndicator = secLen&0x8000 != 0
	pat.SectionLength = secLen & 0xFFF

	sectionStart := p

	pat.TransportStreamID = read2(b[p:])
	p += 2

	cni := b[p]
	p++
	pat.VersionNumber = (cni & 0x3E) >> 1
	pat.CurrentNextIndicator = cni&0x1 != 0

	pat.SectionNumber = b[p]
	p++
	pat.LastSectionNumber = b[p]
	p++

	for p-sectionStart < int(pat.SectionLength)-4 {
		if len(b) < p+4 {
			return nil, errors.New("psi: truncated PAT program loop")
		}
		programNumber := read2(b[p:])
		p += 2
		pid := read2(b[p:]) & 0x1FFF
		p += 2

		prog := PATProgram{ProgramNumber: programNumber}
		if programNumber == 0 {
			prog.NetworkPID = pid
		} else {
			prog.ProgramMapPID = pid
		}
		pat.Programs = append(pat.Programs, prog)
	}

	return pat, nil
}

func read2(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func read4(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
