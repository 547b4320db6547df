/*
NAME
  emitter.go

DESCRIPTION
  emitter.go provides a minimal, indent-aware XML writer used to render
  the transport stream analysis as a single streamed document, rather
  than building a DOM and marshalling it in one pass.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xmlreport writes an indented XML report incrementally to an
// io.Writer.
package xmlreport

import (
	"fmt"
	"io"
	"strings"
)

// Emitter writes indented, printf-style XML fragments to an underlying
// writer. Every call is independent; Emitter does not track open/close
// tag balance, matching the caller-managed nesting its output is
// written in.
type Emitter struct {
	w       io.Writer
	enabled bool
	err     error
}

// NewEmitter returns an Emitter that writes to w. If enabled is false,
// every call to Printf is a no-op that never touches w; this lets a
// caller build the rest of its analysis unconditionally while still
// being able to suppress XML output entirely.
func NewEmitter(w io.Writer, enabled bool) *Emitter {
	return &Emitter{w: w, enabled: enabled}
}

// Printf writes format, expanded with args, indented by indent levels
// of two spaces. It is a no-op if the Emitter is disabled or has
// already recorded a write error.
func (e *Emitter) Printf(indent int, format string, args ...any) {
	if !e.enabled || e.err != nil {
		return
	}
	line := strings.Repeat("  ", indent) + fmt.Sprintf(format, args...)
	_, e.err = io.WriteString(e.w, line)
}

// Err returns the first error encountered writing to the underlying
// writer, if any.
func (e *Emitter) Err() error {
	return e.err
}

// Enabled reports whether this Emitter is currently producing output.
func (e *Emitter) Enabled() bool {
	return e.enabled
}
