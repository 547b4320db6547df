/*
NAME
  analyzer.go - ties demuxing, PSI, PES and codec decode into one XML report.

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package analyzer is a single-pass, synchronous MPEG-2 Transport Stream
// analyzer. Run demultiplexes PAT/PMT, PES headers, and (optionally)
// coded elementary-stream frames for MPEG-2 video and H.264/AVC video
// from an io.Reader, and renders the result as a single XML document.
package analyzer

import (
	"io"
	"log"

	"github.com/ausocean/av/container/mts"
	"github.com/ausocean/av/xmlreport"
	"github.com/pkg/errors"
)

// Options configures a single Run.
type Options struct {
	// Terse suppresses the per-packet diagnostic <packet> element that
	// is otherwise emitted for every TS packet seen, matching
	// mpts_parser::setTerse. PAT/PMT bodies and <frame> records are
	// still emitted regardless of Terse.
	Terse bool

	// Video enables elementary-stream frame analysis: MPEG-2 video and
	// H.264 video PIDs are accumulated and decoded into <frame>
	// elements, matching mpts_parser::setAnalyzeElementaryStream. When
	// false, elementary-stream PIDs are only classified, never decoded.
	Video bool

	// MaxFrames stops the analysis after this many frames have been
	// emitted. Zero means unlimited.
	MaxFrames int

	// Logger receives diagnostic (non-XML) output. A nil Logger
	// discards diagnostics.
	Logger *log.Logger

	// Name is rendered in the XML <name> element; callers that have a
	// file path should pass it here, since Run itself only sees an
	// io.Reader.
	Name string

	// Size is rendered in the XML <file_size> element, if known (0 if
	// the caller does not know it, e.g. reading from a pipe).
	Size int64
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Run reads a transport stream from r, analyzes it per opts, and writes
// the resulting XML report to w. It returns the first unrecoverable
// error encountered; per-packet framing errors are reported as <error>
// elements in the XML and do not stop the analysis.
func Run(r io.Reader, w io.Writer, opts Options) error {
	d, err := mts.NewDemuxer(r)
	if err != nil {
		return errors.Wrap(err, "could not detect packet framing")
	}
	logger := opts.logger()

	em := xmlreport.NewEmitter(w, true)
	em.Printf(0, "<?xml version = \"1.0\" encoding = \"UTF-8\"?>\n")
	em.Printf(0, "<file>\n")
	em.Printf(1, "<name>%s</name>\n", opts.Name)
	em.Printf(1, "<file_size>%d</file_size>\n", opts.Size)
	em.Printf(1, "<packet_size>%d</packet_size>\n", d.PacketSize)
	em.Printf(1, "<terse>%d</terse>\n", boolToInt(opts.Terse))

	st := NewState()
	framesEmitted := 0
	packetNum := 0

	for opts.MaxFrames == 0 || framesEmitted < opts.MaxFrames {
		pkt, perr := d.Next()
		if perr == io.EOF {
			break
		}
		if errors.Is(perr, mts.ErrBadSync) {
			logger.Printf("packet %d: %v", packetNum, perr)
			em.Printf(1, "<packet start=\"%d\">\n", d.Pos())
			em.Printf(2, "<number>%d</number>\n", packetNum)
			em.Printf(2, "<error>%v</error>\n", perr)
			em.Printf(1, "</packet>\n")
			packetNum++
			continue
		}
		if perr != nil {
			return errors.Wrap(perr, "demux error")
		}

		n := st.dispatch(pkt, packetNum, opts, em, logger)
		framesEmitted += n
		packetNum++
	}

	if opts.MaxFrames == 0 || framesEmitted < opts.MaxFrames {
		if f := st.flush(opts); f != nil {
			emitFrame(em, f)
			framesEmitted++
		}
	}

	em.Printf(0, "</file>\n")
	if em.Err() != nil {
		return errors.Wrap(em.Err(), "writing xml report")
	}
	return nil
}
