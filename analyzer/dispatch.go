/*
NAME
  dispatch.go - per-packet PID dispatch: PAT, PMT, and elementary streams.

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

import (
	"log"

	"github.com/ausocean/av/codec/h264/h264dec"
	"github.com/ausocean/av/container/mts"
	"github.com/ausocean/av/container/mts/pes"
	"github.com/ausocean/av/container/mts/psi"
	"github.com/ausocean/av/xmlreport"
)

// dispatch processes one demultiplexed TS packet, emitting any XML it
// produces directly, and returns the number of frames it flushed (0 or
// 1). It mirrors original_source/mpts_parser.cpp's processPid, with an
// explicit *State taking the place of processPid's function-local
// static size_t lastPid.
func (s *State) dispatch(pkt *mts.TSPacket, packetNum int, opts Options, em *xmlreport.Emitter, logger *log.Logger) int {
	if !opts.Terse {
		em.Printf(1, "<packet start=\"%d\">\n", pkt.Pos)
		em.Printf(2, "<number>%d</number>\n", packetNum)
		em.Printf(2, "<pid>0x%x</pid>\n", pkt.PID)
		em.Printf(2, "<payload_unit_start_indicator>0x%x</payload_unit_start_indicator>\n", boolToInt(pkt.PUSI))
	}

	framesFlushed := 0

	switch {
	case pkt.PID == pidPAT:
		s.handlePAT(pkt, em)

	case s.ProgramMapPID != 0 && pkt.PID == s.ProgramMapPID:
		s.handlePMT(pkt, em)

	case pkt.PID != pidNull:
		framesFlushed = s.handleElementary(pkt, opts, em, logger)
	}

	if !opts.Terse {
		em.Printf(1, "</packet>\n")
	}

	if pkt.PID != pidNull {
		s.lastPID = int32(pkt.PID)
	}
	return framesFlushed
}

// handlePAT decodes a PAT packet and records the network/program map PID.
func (s *State) handlePAT(pkt *mts.TSPacket, em *xmlreport.Emitter) {
	pat, err := psi.ReadPAT(pkt.Payload, pkt.PUSI)
	if err != nil {
		em.Printf(2, "<error>%v</error>\n", err)
		return
	}

	em.Printf(2, "<program_association_table>\n")
	em.Printf(3, "<table_id>0x%x</table_id>\n", pat.TableID)
	em.Printf(3, "<section_syntax_indicator>%d</section_syntax_indicator>\n", boolToInt(pat.SectionSyntaxIndicator))
	em.Printf(3, "<section_length>%d</section_length>\n", pat.SectionLength)
	em.Printf(3, "<transport_stream_id>0x%x</transport_stream_id>\n", pat.TransportStreamID)
	em.Printf(3, "<version_number>0x%x</version_number>\n", pat.VersionNumber)
	em.Printf(3, "<current_next_indicator>0x%x</current_next_indicator>\n", boolToInt(pat.CurrentNextIndicator))
	em.Printf(3, "<section_number>0x%x</section_number>\n", pat.SectionNumber)
	em.Printf(3, "<last_section_number>0x%x</last_section_number>\n", pat.LastSectionNumber)

	for _, prog := range pat.Programs {
		em.Printf(3, "<program>\n")
		em.Printf(4, "<number>%d</number>\n", prog.ProgramNumber)
		if prog.ProgramNumber == 0 {
			em.Printf(4, "<network_pid>0x%x</network_pid>\n", prog.NetworkPID)
			s.NetworkPID = prog.NetworkPID
		} else {
			em.Printf(4, "<program_map_pid>0x%x</program_map_pid>\n", prog.ProgramMapPID)
			s.ProgramMapPID = prog.ProgramMapPID
		}
		em.Printf(3, "</program>\n")
	}
	em.Printf(2, "</program_association_table>\n")
}

// handlePMT decodes a PMT packet and populates the PID name/type maps.
func (s *State) handlePMT(pkt *mts.TSPacket, em *xmlreport.Emitter) {
	pmt, err := psi.ReadPMT(pkt.Payload, pkt.PUSI)
	if err != nil {
		em.Printf(2, "<error>%v</error>\n", err)
		return
	}

	s.PIDNames[pidNull] = "NULL Packet"
	s.PIDNames[pmt.PCRPID] = "PCR"

	em.Printf(2, "<program_map_table>\n")
	em.Printf(3, "<table_id>0x%x</table_id>\n", pmt.TableID)
	em.Printf(3, "<section_syntax_indicator>%d</section_syntax_indicator>\n", boolToInt(pmt.SectionSyntaxIndicator))
	em.Printf(3, "<section_length>%d</section_length>\n", pmt.SectionLength)
	em.Printf(3, "<program_number>%d</program_number>\n", pmt.ProgramNumber)
	em.Printf(3, "<version_number>%d</version_number>\n", pmt.VersionNumber)
	em.Printf(3, "<current_next_indicator>%d</current_next_indicator>\n", boolToInt(pmt.CurrentNextIndicator))
	em.Printf(3, "<section_number>%d</section_number>\n", pmt.SectionNumber)
	em.Printf(3, "<last_section_number>%d</last_section_number>\n", pmt.LastSectionNumber)
	em.Printf(3, "<pcr_pid>0x%x</pcr_pid>\n", pmt.PCRPID)
	em.Printf(3, "<program_info_length>%d</program_info_length>\n", pmt.ProgramInfoLength)

	for i, el := range pmt.Elements {
		if el.StreamType == psi.SCTE35StreamType || el.IsSCTE35 {
			s.SCTE35PID = el.ElementaryPID
		}
		name := streamTypeName(el.StreamType)
		s.PIDNames[el.ElementaryPID] = name
		s.PIDTypes[el.ElementaryPID] = el.StreamType

		em.Printf(3, "<stream>\n")
		em.Printf(4, "<number>%d</number>\n", i)
		em.Printf(4, "<pid>0x%x</pid>\n", el.ElementaryPID)
		em.Printf(4, "<type_number>0x%x</type_number>\n", el.StreamType)
		em.Printf(4, "<type_name>%s</type_name>\n", name)
		em.Printf(3, "</stream>\n")
	}
	em.Printf(2, "</program_map_table>\n")
}

// handleElementary processes a packet belonging to an elementary stream
// PID: classification-only when opts.Video is false, frame accumulation
// and decode when true. It returns 1 if a frame was flushed to the XML
// report, 0 otherwise.
func (s *State) handleElementary(pkt *mts.TSPacket, opts Options, em *xmlreport.Emitter, logger *log.Logger) int {
	st, knownType := s.PIDTypes[pkt.PID]
	if !knownType {
		return 0
	}

	if !opts.Video {
		if !opts.Terse {
			em.Printf(2, "<type_name>%s</type_name>\n", streamTypeName(st))
		}
		return 0
	}

	kind := classifyStream(st)
	if kind == kindOther {
		return 0
	}

	framesFlushed := 0

	newSet := false
	if pkt.PUSI {
		if s.current != nil {
			s.decodeAccumulated(s.current, logger)
			emitFrame(em, s.current)
			framesFlushed = 1
		}
		s.accum.Reset()
		s.current = &FrameRecord{Number: s.frameNumber, PID: pkt.PID, Name: s.pidName(pkt.PID)}
		s.frameNumber++
		s.videoPID = pkt.PID
		s.kind = kind
		newSet = true
	} else if s.current == nil {
		return 0
	} else if int32(pkt.PID) != s.lastPID {
		newSet = true
	}

	if newSet {
		s.current.Contributions = append(s.current.Contributions, PidContribution{
			Name:       s.pidName(pkt.PID),
			NumPackets: 1,
			StartPos:   pkt.Pos,
		})
	} else if len(s.current.Contributions) > 0 {
		s.current.Contributions[len(s.current.Contributions)-1].NumPackets++
	}

	s.accum.Push(pkt.Payload)

	return framesFlushed
}

// decodeAccumulated runs the PES header parser and the appropriate
// codec parser over the bytes collected for the frame just completed,
// filling in f's PTS/DTS/Type/ClosedGOP fields. It does nothing if f is
// nil or no bytes have been accumulated.
func (s *State) decodeAccumulated(f *FrameRecord, logger *log.Logger) {
	if f == nil || s.accum.Len() == 0 {
		return
	}

	b := s.accum.Bytes()
	h, err := pes.ReadHeader(b, len(b))
	if err != nil {
		logger.Printf("pid 0x%x: could not parse PES header: %v", f.PID, err)
		return
	}
	f.HasPTS = h.HasPTS()
	f.HasDTS = h.HasDTS()
	f.PTS = h.PTS
	f.DTS = h.DTS

	es := b[h.HeaderLength:]

	switch s.kind {
	case kindMPEG2Video:
		_, err := s.mpeg2.ParseFrames(es, 1)
		if err != nil {
			logger.Printf("pid 0x%x: mpeg2video parse: %v", f.PID, err)
			return
		}
		if n := len(s.mpeg2.Frames); n > 0 {
			frame := s.mpeg2.Frames[n-1]
			f.Type = frame.Type.String()
			f.ClosedGOP = frame.ClosedGOP
		}

	case kindH264Video:
		units := h264dec.SplitAnnexB(es)
		for _, nal := range units {
			u, err := s.h264.ParseNAL(nal)
			if err != nil {
				logger.Printf("pid 0x%x: h264dec parse: %v", f.PID, err)
				continue
			}
			if u.SliceHeader != nil {
				f.Type = u.SliceHeader.SliceTypeName()
				if u.IsIDR {
					f.ClosedGOP = true
				}
			}
		}
	}
}

// flush forces the last in-progress frame through the codec parser,
// matching mptsParser::flush()/printFrameInfo's final call.
func (s *State) flush(opts Options) *FrameRecord {
	if !opts.Video || s.current == nil {
		return nil
	}
	s.decodeAccumulated(s.current, opts.logger())
	f := s.current
	s.current = nil
	return f
}

// emitFrame renders one completed FrameRecord as the <frame> element
// described in spec.md §6.
func emitFrame(em *xmlreport.Emitter, f *FrameRecord) {
	packets := 0
	for _, c := range f.Contributions {
		packets += c.NumPackets
	}

	em.Printf(1, "<frame number=\"%d\" name=\"%s\" packets=\"%d\" pid=\"0x%x\">\n", f.Number, f.Name, packets, f.PID)
	if f.HasDTS {
		em.Printf(2, "<DTS>%d</DTS>\n", f.DTS)
	}
	if f.HasPTS {
		em.Printf(2, "<PTS>%d</PTS>\n", f.PTS)
	}
	if f.Type != "" {
		em.Printf(2, "<type>%s</type>\n", f.Type)
	}
	em.Printf(2, "<slices>\n")
	for _, c := range f.Contributions {
		em.Printf(3, "<slice byte=\"%d\" packets=\"%d\"/>\n", c.StartPos, c.NumPackets)
	}
	em.Printf(2, "</slices>\n")
	em.Printf(1, "</frame>\n")
}
