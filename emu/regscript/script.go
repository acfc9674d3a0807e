// Package regscript drives expansion chips from register-write scripts.
//
// Three script formats are supported, chosen by file extension: plain text
// (.txt or anything else), JSON (.json) and Lua (.lua).
package regscript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"exsound/emu/log"
)

// Target receives the register accesses of a script.
type Target interface {
	// Wait lets cycles master clock cycles elapse.
	Wait(cycles uint32)
	Write(addr uint16, val uint8)
	Read(addr uint16) (val uint8, mapped bool)
}

// A Script plays register accesses against a target.
type Script interface {
	Run(ctx context.Context, t Target) error
}

type OpKind uint8

const (
	OpWait OpKind = iota
	OpWrite
	OpRead
)

// Op is a single script operation. For reads, Check reports whether the
// read value must equal Val.
type Op struct {
	Kind   OpKind
	Cycles uint32
	Addr   uint16
	Val    uint8
	Check  bool
	Line   int
}

// Program is a script made of a fixed sequence of operations.
type Program struct {
	Name string
	Ops  []Op
}

func (p *Program) Run(ctx context.Context, t Target) error {
	for _, op := range p.Ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch op.Kind {
		case OpWait:
			t.Wait(op.Cycles)
		case OpWrite:
			t.Write(op.Addr, op.Val)
		case OpRead:
			val, mapped := t.Read(op.Addr)
			log.ModScript.DebugZ("read").Hex16("addr", op.Addr).Hex8("val", val).Bool("mapped", mapped).End()
			if op.Check && (!mapped || val != op.Val) {
				return fmt.Errorf("%s:%d: read $%04X = $%02X (mapped=%t), want $%02X",
					p.Name, op.Line, op.Addr, val, mapped, op.Val)
			}
		}
	}
	return nil
}

// Duration returns the total number of cycles the program waits.
func (p *Program) Duration() uint64 {
	var n uint64
	for _, op := range p.Ops {
		if op.Kind == OpWait {
			n += uint64(op.Cycles)
		}
	}
	return n
}

// Load reads the script at path.
func Load(path string) (Script, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(filepath.Base(path), buf)
}

// Parse parses a script from buf, name is used for the format and in error
// messages.
func Parse(name string, buf []byte) (Script, error) {
	var (
		s   Script
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		s, err = ParseJSON(name, buf)
	case ".lua":
		s, err = CompileLua(name, buf)
	default:
		s, err = ParseText(name, buf)
	}
	if err != nil {
		return nil, err
	}
	log.ModScript.InfoZ("script loaded").String("name", name).End()
	return s, nil
}
