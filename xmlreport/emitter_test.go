/*
NAME
  emitter_test.go

DESCRIPTION
  See Readme.md

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xmlreport

import (
	"bytes"
	"testing"
)

func TestEmitterPrintf(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		calls   func(e *Emitter)
		want    string
	}{
		{
			name:    "disabled produces nothing",
			enabled: false,
			calls: func(e *Emitter) {
				e.Printf(0, "<pid>%d</pid>\n", 256)
			},
			want: "",
		},
		{
			name:    "indents by two spaces per level",
			enabled: true,
			calls: func(e *Emitter) {
				e.Printf(0, "<packet>\n")
				e.Printf(1, "<pid>%d</pid>\n", 256)
				e.Printf(0, "</packet>\n")
			},
			want: "<packet>\n  <pid>256</pid>\n</packet>\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := NewEmitter(&buf, test.enabled)
			test.calls(e)
			if e.Err() != nil {
				t.Fatalf("unexpected error: %v", e.Err())
			}
			if got := buf.String(); got != test.want {
				t.Errorf("unexpected output:\ngot:  %q\nwant: %q", got, test.want)
			}
		})
	}
}
