package regscript

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseText parses a text script. Each line holds one operation:
//
//	wait CYCLES
//	w ADDR VAL
//	r ADDR [WANT]
//
// Numbers are decimal, or hexadecimal when prefixed with $ or 0x. Anything
// following a # or ; is a comment.
func ParseText(name string, buf []byte) (*Program, error) {
	prog := &Program{Name: name}

	sc := bufio.NewScanner(bytes.NewReader(buf))
	for lineno := 1; sc.Scan(); lineno++ {
		line := sc.Text()
		if i := strings.IndexAny(line, "#;"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineno, err)
		}
		op.Line = lineno
		prog.Ops = append(prog.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return prog, nil
}

func parseOp(fields []string) (Op, error) {
	var (
		op   Op
		args = fields[1:]
		err  error
	)

	switch strings.ToLower(fields[0]) {
	case "wait":
		op.Kind = OpWait
		if len(args) != 1 {
			return op, fmt.Errorf("wait: want 1 argument, got %d", len(args))
		}
		op.Cycles, err = parseNum[uint32](args[0])
	case "w", "write":
		op.Kind = OpWrite
		if len(args) != 2 {
			return op, fmt.Errorf("write: want 2 arguments, got %d", len(args))
		}
		if op.Addr, err = parseNum[uint16](args[0]); err == nil {
			op.Val, err = parseNum[uint8](args[1])
		}
	case "r", "read":
		op.Kind = OpRead
		if len(args) != 1 && len(args) != 2 {
			return op, fmt.Errorf("read: want 1 or 2 arguments, got %d", len(args))
		}
		op.Addr, err = parseNum[uint16](args[0])
		if err == nil && len(args) == 2 {
			op.Check = true
			op.Val, err = parseNum[uint8](args[1])
		}
	default:
		return op, fmt.Errorf("unknown operation %q", fields[0])
	}
	return op, err
}

type unsigned interface {
	uint8 | uint16 | uint32
}

// parseNum parses a decimal, $hex or 0xhex number fitting in T.
func parseNum[T unsigned](s string) (T, error) {
	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "$"):
		base, digits = 16, s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, digits = 16, s[2:]
	}

	var zero T
	bits := 8
	switch any(zero).(type) {
	case uint16:
		bits = 16
	case uint32:
		bits = 32
	}

	n, err := strconv.ParseUint(digits, base, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %d-bit number %q", bits, s)
	}
	return T(n), nil
}
