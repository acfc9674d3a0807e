package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type bankReg struct {
	offset uint16
	regPtr any
}

type regTag struct {
	offset    uint16
	hasOffset bool
	bank      int
	reset     uint64
	rwmask    uint64
	hasRWMask bool
	size      uint64
	vsize     uint64
	readonly  bool
	writeonly bool
	rcb       string
	wcb       string
	pcb       string
}

func parseUint(key, s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	return v, nil
}

// parseTag parses the content of a hwio struct tag. Callback options without
// an explicit name (rcb, wcb, pcb) get the default name built from the
// uppercased field name: ReadFOO, WriteFOO, PeekFOO.
func parseTag(field, tag string) (regTag, error) {
	var rt regTag
	upper := strings.ToUpper(field)

	for _, opt := range strings.Split(tag, ",") {
		if opt == "" {
			continue
		}
		key, val, hasVal := strings.Cut(opt, "=")

		var err error
		var v uint64
		switch key {
		case "offset":
			v, err = parseUint(key, val, 16)
			rt.offset, rt.hasOffset = uint16(v), true
		case "bank":
			v, err = parseUint(key, val, 8)
			rt.bank = int(v)
		case "reset":
			rt.reset, err = parseUint(key, val, 8)
		case "rwmask":
			rt.rwmask, err = parseUint(key, val, 8)
			rt.hasRWMask = true
		case "size":
			rt.size, err = parseUint(key, val, 32)
		case "vsize":
			rt.vsize, err = parseUint(key, val, 32)
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		case "rcb":
			rt.rcb = "Read" + upper
			if hasVal {
				rt.rcb = val
			}
		case "wcb":
			rt.wcb = "Write" + upper
			if hasVal {
				rt.wcb = val
			}
		case "pcb":
			rt.pcb = "Peek" + upper
			if hasVal {
				rt.pcb = val
			}
		default:
			err = fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return rt, fmt.Errorf("field %s: %w", field, err)
		}
	}

	if rt.readonly && rt.writeonly {
		return rt, fmt.Errorf("field %s: readonly and writeonly are exclusive", field)
	}
	return rt, nil
}

func (rt *regTag) flags() RWFlags {
	switch {
	case rt.readonly:
		return ReadOnlyFlag
	case rt.writeonly:
		return WriteOnlyFlag
	}
	return ReadWriteFlag
}

func method(bank reflect.Value, name string, dst any) error {
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return fmt.Errorf("missing method %s on %s", name, bank.Type())
	}
	dv := reflect.ValueOf(dst).Elem()
	if !m.Type().AssignableTo(dv.Type()) {
		return fmt.Errorf("method %s has type %s, want %s", name, m.Type(), dv.Type())
	}
	dv.Set(m)
	return nil
}

func initReg8(bank reflect.Value, name string, reg *Reg8, rt regTag) error {
	reg.Name = name
	reg.Value = uint8(rt.reset)
	if rt.hasRWMask {
		reg.RoMask = ^uint8(rt.rwmask)
	}
	reg.Flags = rt.flags()

	if rt.rcb != "" {
		if err := method(bank, rt.rcb, &reg.ReadCb); err != nil {
			return err
		}
	}
	if rt.pcb != "" {
		if err := method(bank, rt.pcb, &reg.PeekCb); err != nil {
			return err
		}
	}
	if rt.wcb != "" {
		if err := method(bank, rt.wcb, &reg.WriteCb); err != nil {
			return err
		}
	}
	return nil
}

func initDevice(bank reflect.Value, name string, dev *Device, rt regTag) error {
	if rt.size == 0 || rt.size > 0x10000 {
		return fmt.Errorf("device %s: invalid size %d", name, rt.size)
	}
	dev.Name = name
	dev.Size = int(rt.size)
	dev.Flags = rt.flags()

	if rt.rcb != "" {
		if err := method(bank, rt.rcb, &dev.ReadCb); err != nil {
			return err
		}
	}
	if rt.pcb != "" {
		if err := method(bank, rt.pcb, &dev.PeekCb); err != nil {
			return err
		}
	}
	if rt.wcb != "" {
		if err := method(bank, rt.wcb, &dev.WriteCb); err != nil {
			return err
		}
	}
	return nil
}

func initMem(bank reflect.Value, name string, mem *Mem, rt regTag) error {
	if mem.Data == nil {
		if rt.size == 0 || rt.size&(rt.size-1) != 0 {
			return fmt.Errorf("mem %s: size %d is not a power of 2", name, rt.size)
		}
		mem.Data = make([]byte, rt.size)
	}
	mem.Name = name
	mem.VSize = len(mem.Data)
	if rt.vsize != 0 {
		mem.VSize = int(rt.vsize)
	}
	if rt.readonly {
		mem.Flags |= MemFlag8ReadOnly
	}
	if rt.wcb != "" {
		if err := method(bank, rt.wcb, &mem.WriteCb); err != nil {
			return err
		}
	}
	return nil
}

func walkRegs(bank any, fn func(name string, ptr any, rt regTag) error) error {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: expected pointer to struct, got %T", bank)
	}
	s := v.Elem()
	for i := 0; i < s.NumField(); i++ {
		sf := s.Type().Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(sf.Name, tag)
		if err != nil {
			return err
		}
		if err := fn(sf.Name, s.Field(i).Addr().Interface(), rt); err != nil {
			return err
		}
	}
	return nil
}

// InitRegs initializes all the registers of a bank structure from their hwio
// struct tags, binding callbacks to the bank's methods.
func InitRegs(bank any) error {
	bv := reflect.ValueOf(bank)
	return walkRegs(bank, func(name string, ptr any, rt regTag) error {
		switch r := ptr.(type) {
		case *Reg8:
			return initReg8(bv, name, r, rt)
		case *Device:
			return initDevice(bv, name, r, rt)
		case *Mem:
			return initMem(bv, name, r, rt)
		}
		return fmt.Errorf("field %s: unsupported type %T", name, ptr)
	})
}

func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

// bankGetRegs returns the registers of a bank that have an explicit offset.
func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	var regs []bankReg
	err := walkRegs(bank, func(_ string, ptr any, rt regTag) error {
		if rt.hasOffset && rt.bank == bankNum {
			regs = append(regs, bankReg{offset: rt.offset, regPtr: ptr})
		}
		return nil
	})
	return regs, err
}
