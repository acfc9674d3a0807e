package regscript

import (
	"bytes"
	"context"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"exsound/emu/log"
)

// LuaScript is a compiled Lua script. The script sees three global
// functions:
//
//	wait(cycles)
//	write(addr, val)
//	val, mapped = read(addr)
//
// and the ordinary Lua base, string, table and math libraries.
type LuaScript struct {
	name  string
	proto *lua.FunctionProto
}

// CompileLua compiles the Lua source in buf.
func CompileLua(name string, buf []byte) (*LuaScript, error) {
	chunk, err := parse.Parse(bytes.NewReader(buf), name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &LuaScript{name: name, proto: proto}, nil
}

func (s *LuaScript) Run(ctx context.Context, t Target) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	L.SetContext(ctx)

	L.SetGlobal("wait", L.NewFunction(func(L *lua.LState) int {
		t.Wait(checkUint[uint32](L, 1))
		return 0
	}))
	L.SetGlobal("write", L.NewFunction(func(L *lua.LState) int {
		t.Write(checkUint[uint16](L, 1), checkUint[uint8](L, 2))
		return 0
	}))
	L.SetGlobal("read", L.NewFunction(func(L *lua.LState) int {
		addr := checkUint[uint16](L, 1)
		val, mapped := t.Read(addr)
		log.ModScript.DebugZ("read").Hex16("addr", addr).Hex8("val", val).Bool("mapped", mapped).End()
		L.Push(lua.LNumber(val))
		L.Push(lua.LBool(mapped))
		return 2
	}))

	L.Push(L.NewFunctionFromProto(s.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

// checkUint returns argument n as a T, raising a Lua error if it's not an
// integer fitting in T.
func checkUint[T unsigned](L *lua.LState, n int) T {
	f := float64(L.CheckNumber(n))
	if f < 0 || f > float64(^T(0)) || f != math.Trunc(f) {
		L.ArgError(n, fmt.Sprintf("%v is not a valid %T", f, T(0)))
	}
	return T(f)
}
