/*
DESCRIPTION
  log.go provides the package-level logger used throughout h264dec. Call
  sites prefix each message with its own level ("debug:", "info:",
  "error:") rather than relying on a leveled logging library.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"io"
	"log"
)

// logger is written to by every file in this package. It discards output
// by default; callers that want diagnostics should call SetLogOutput.
var logger = log.New(io.Discard, "h264dec: ", log.LstdFlags)

// SetLogOutput redirects the package logger's output, letting a caller
// wire this package's diagnostics into its own log destination.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}
