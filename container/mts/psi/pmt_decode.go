/*
NAME
  pmt_decode.go - decodes a Program Map Table section.

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

// SCTE35StreamType is the PMT stream_type value that marks an elementary
// stream as carrying SCTE-35 splice information.
const SCTE35StreamType = 0x86

// PMTElement is one elementary stream entry in a PMT's program loop,
// ISO/IEC 13818-1 2.4.4.9. The per-element descriptor loop (es_info) is
// walked only far enough to detect an SCTE-35 registration marker; it is
// otherwise skipped by its declared length, matching the reference
// implementation this module was ported from.
type PMTElement struct {
	StreamType    uint8
	ElementaryPID uint16
	ESInfoLength  uint16
	IsSCTE35      bool
}

// PMTTable is a fully decoded Program Map Table section.
type PMTTable struct {
	PointerField           uint8
	TableID                 uint8
	SectionSyntaxIndicator  bool
	SectionLength           uint16
	ProgramNumber           uint16
	VersionNumber           uint8
	CurrentNextIndicator    bool
	SectionNumber           uint8
	LastSectionNumber       uint8
	PCRPID                  uint16
	ProgramInfoLength       uint16
	ProgramDescriptors      []ElementDescriptor
	Elements                []PMTElement
}

// ReadPMT decodes a Program Map Table section from b. pusi indicates
// whether b begins with the pointer_field byte.
func ReadPMT(b []byte, pusi bool) (*PMTTable, error) {
	pmt := &PMTTable{}
	p := 0

	if pusi {
		if len(b) < 1 {
			return nil, errors.New("psi: buffer too short for PMT pointer field")
		}
		pmt.PointerField = b[0]
		p = 1 + int(pmt.PointerField)
	}

	if len(b) < p+12 {
		return nil, errors.New("psi: buffer too short for PMT header")
	}

	pmt.TableID = b[p]
	p++

	secLen := read2(b[p:])
	p += 2
	pmt.SectionSyntaxIndicator = secLen&0x8000 != 0
	pmt.SectionLength = secLen & 0xFFF

	sectionStart := p

	pmt.ProgramNumber = read2(b[p:])
	p += 2

	cni := b[p]
	p++
	pmt.VersionNumber = (cni & 0x3E) >> 1
	pmt.CurrentNextIndicator = cni&0x1 != 0

	pmt.SectionNumber = b[p]
	p++
	pmt.LastSectionNumber = b[p]
	p++

	pmt.PCRPID = read2(b[p:]) & 0x1FFF
	p += 2

	pmt.ProgramInfoLength = read2(b[p:]) & 0xFFF
	p += 2

	if len(b) < p+int(pmt.ProgramInfoLength) {
		return nil, errors.New("psi: truncated PMT program_info loop")
	}
	descs, err := ReadDescriptors(b[p:], int(pmt.ProgramInfoLength))
	if err != nil {
		return nil, errors.Wrap(err, "could not read PMT program descriptors")
	}
	pmt.ProgramDescriptors = descs
	p += int(pmt.ProgramInfoLength)

	for p-sectionStart < int(pmt.SectionLength)-4 {
		if len(b) < p+5 {
			return nil, errors.New("psi: truncated PMT element loop")
		}
		el := PMTElement{StreamType: b[p]}
		p++
		el.ElementaryPID = read2(b[p:]) & 0x1FFF
		p += 2
		el.ESInfoLength = read2(b[p:]) & 0xFFF
		p += 2

		if len(b) < p+int(el.ESInfoLength) {
			return nil, errors.New("psi: truncated PMT es_info loop")
		}

		// The es_info descriptor loop is not decoded element-by-element,
		// only scanned for an SCTE-35 registration marker; this mirrors
		// readElementDescriptors in the reference this was ported from,
		// which likewise does not attach per-element descriptors to PMT
		// output.
		esInfo := b[p : p+int(el.ESInfoLength)]
		if descs, err := ReadDescriptors(esInfo, len(esInfo)); err == nil {
			for _, d := range descs {
				if rd, ok := d.(*RegistrationDescriptor); ok && rd.IsSCTE35() {
					el.IsSCTE35 = true
				}
			}
		}
		if el.StreamType == SCTE35StreamType {
			el.IsSCTE35 = true
		}

		p += int(el.ESInfoLength)
		pmt.Elements = append(pmt.Elements, el)
	}

	return pmt, nil
}
