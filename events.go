package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-faster/jx"

	"exsound/hw/extaudio"
)

// eventWriter is an extaudio.Sink printing every level event, either as JSON
// lines or as a text table.
type eventWriter struct {
	w     *bufio.Writer
	json  bool
	enc   jx.Encoder
	frame func() uint64
	err   error
	n     int
}

func newEventWriter(w io.Writer, json bool) *eventWriter {
	return &eventWriter{
		w:     bufio.NewWriter(w),
		json:  json,
		frame: func() uint64 { return 0 },
	}
}

func (ew *eventWriter) SetLevel(ch extaudio.Channel, time uint32, level int16) {
	if ew.err != nil {
		return
	}

	frame := ew.frame()
	if ew.json {
		ew.enc.Reset()
		ew.enc.Obj(func(e *jx.Encoder) {
			e.Field("frame", func(e *jx.Encoder) { e.UInt64(frame) })
			e.Field("time", func(e *jx.Encoder) { e.UInt32(time) })
			e.Field("ch", func(e *jx.Encoder) { e.Str(ch.String()) })
			e.Field("level", func(e *jx.Encoder) { e.Int(int(level)) })
		})
		if _, ew.err = ew.w.Write(ew.enc.Bytes()); ew.err == nil {
			_, ew.err = ew.w.WriteString("\n")
		}
	} else {
		if ew.n%50 == 0 {
			fmt.Fprintf(ew.w, "%8s %6s  %-13s %5s\n", "FRAME", "TIME", "CHANNEL", "LEVEL")
		}
		_, ew.err = fmt.Fprintf(ew.w, "%8d %6d  %-13s %5d\n", frame, time, ch, level)
	}
	ew.n++
}

// Flush writes buffered events and returns the first write error.
func (ew *eventWriter) Flush() error {
	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}
