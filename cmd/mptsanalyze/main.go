/*
DESCRIPTION
  mptsanalyze is a single-pass MPEG-2 Transport Stream analyzer. It reads
  a TS file, demultiplexes PAT/PMT, PES headers, and (with -video)
  MPEG-2/H.264 elementary stream frames, and writes an XML report.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mptsanalyze is the command-line entry point for the analyzer
// package.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ausocean/av/analyzer"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log rotation defaults for the lumberjack logger enabled by -log.
const (
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	terse := flag.Bool("terse", false, "suppress per-packet diagnostic XML elements")
	video := flag.Bool("video", false, "decode MPEG-2/H.264 elementary stream frames")
	out := flag.String("out", "", "XML output path (default stdout)")
	logPath := flag.String("log", "", "log file path (enables log rotation via lumberjack)")
	frames := flag.Int("frames", 0, "stop after this many frames (0 = unlimited)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mptsanalyze [flags] <ts-file>")
		os.Exit(-1)
	}
	inPath := flag.Arg(0)

	logger := newLogger(*logPath)

	f, err := os.Open(inPath)
	if err != nil {
		logger.Printf("could not open %s: %v", inPath, err)
		os.Exit(-1)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Printf("could not stat %s: %v", inPath, err)
		os.Exit(-1)
	}

	w := io.Writer(os.Stdout)
	if *out != "" {
		outFile, err := os.Create(*out)
		if err != nil {
			logger.Printf("could not create %s: %v", *out, err)
			os.Exit(-1)
		}
		defer outFile.Close()
		w = outFile
	}

	opts := analyzer.Options{
		Terse:     *terse,
		Video:     *video,
		MaxFrames: *frames,
		Logger:    logger,
		Name:      inPath,
		Size:      info.Size(),
	}

	if err := analyzer.Run(f, w, opts); err != nil {
		logger.Printf("analysis failed: %v", err)
		os.Exit(1)
	}
}

// newLogger returns a *log.Logger that writes to stderr, and additionally
// to a rotated log file when path is non-empty.
func newLogger(path string) *log.Logger {
	if path == "" {
		return log.New(os.Stderr, "mptsanalyze: ", log.LstdFlags)
	}
	fileLog := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	return log.New(io.MultiWriter(os.Stderr, fileLog), "mptsanalyze: ", log.LstdFlags)
}
