package regscript

import (
	"fmt"

	"github.com/go-faster/jx"
)

// ParseJSON parses a JSON script: an array of operations, each one being an
// object among
//
//	{"wait": 1000}
//	{"w": [36864, 143]}
//	{"r": 20997, "want": 32}
//
// Numbers can also be given as strings, in any form accepted by text
// scripts ("$9000", "0x8F").
func ParseJSON(name string, buf []byte) (*Program, error) {
	prog := &Program{Name: name}

	d := jx.DecodeBytes(buf)
	err := d.Arr(func(d *jx.Decoder) error {
		op, err := decodeOp(d)
		if err != nil {
			return fmt.Errorf("op #%d: %w", len(prog.Ops), err)
		}
		op.Line = len(prog.Ops)
		prog.Ops = append(prog.Ops, op)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return prog, nil
}

func decodeOp(d *jx.Decoder) (Op, error) {
	var (
		op           Op
		nkind        int
		hasWant      bool
		want         uint8
		wantRequired bool
	)

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "wait":
			nkind++
			op.Kind = OpWait
			op.Cycles, err = decodeNum[uint32](d)
		case "w":
			nkind++
			op.Kind = OpWrite
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				var err error
				switch i {
				case 0:
					op.Addr, err = decodeNum[uint16](d)
				case 1:
					op.Val, err = decodeNum[uint8](d)
				default:
					return fmt.Errorf("w: too many elements")
				}
				i++
				return err
			})
			if err == nil && i != 2 {
				err = fmt.Errorf("w: want [addr, val]")
			}
		case "r":
			nkind++
			op.Kind = OpRead
			wantRequired = true
			op.Addr, err = decodeNum[uint16](d)
		case "want":
			hasWant = true
			want, err = decodeNum[uint8](d)
		default:
			return fmt.Errorf("unknown key %q", key)
		}
		return err
	})
	if err != nil {
		return op, err
	}

	switch {
	case nkind != 1:
		return op, fmt.Errorf("want exactly one of wait, w or r")
	case hasWant && !wantRequired:
		return op, fmt.Errorf("want is only valid with r")
	}
	if hasWant {
		op.Check, op.Val = true, want
	}
	return op, nil
}

func decodeNum[T unsigned](d *jx.Decoder) (T, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return parseNum[T](s)
	case jx.Number:
		n, err := d.UInt64()
		if err != nil {
			return 0, err
		}
		if uint64(T(n)) != n {
			return 0, fmt.Errorf("number %d out of range", n)
		}
		return T(n), nil
	default:
		return 0, fmt.Errorf("want a number, got %s", d.Next())
	}
}
