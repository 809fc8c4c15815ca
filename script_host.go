// script_host.go - Lua automation host for scripted parameter sweeps

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ScriptHost runs Lua automation against a live engine. Scripts get a
// `lockin` module:
//
//	lockin.update{ referenceFrequency = 250, phaseShift = 45 }
//	local o = lockin.outputs()      -- {i, q, signedOutput, phase, ...}
//	lockin.sleep(500)               -- milliseconds
//	lockin.monitor("sensor")        -- route a tap to the audio monitor
//	lockin.export("iOutput", "/tmp/i.wav")
//
// Field names in update{} match the JSON names of ParamsUpdate.
type ScriptHost struct {
	engine *Engine
}

func NewScriptHost(engine *Engine) *ScriptHost {
	return &ScriptHost{engine: engine}
}

// Run executes one script file to completion.
func (sh *ScriptHost) Run(path string) error {
	L := lua.NewState()
	defer L.Close()
	L.PreloadModule("lockin", sh.loader)
	return L.DoFile(path)
}

// RunString executes inline script source; used by tests.
func (sh *ScriptHost) RunString(src string) error {
	L := lua.NewState()
	defer L.Close()
	L.PreloadModule("lockin", sh.loader)
	return L.DoString(src)
}

func (sh *ScriptHost) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"update":  sh.luaUpdate,
		"outputs": sh.luaOutputs,
		"sleep":   sh.luaSleep,
		"monitor": sh.luaMonitor,
		"export":  sh.luaExport,
		"stop":    sh.luaStop,
	})
	L.Push(mod)
	return 1
}

func luaNum(L *lua.LState, tbl *lua.LTable, key string) *float64 {
	v := L.GetField(tbl, key)
	if n, ok := v.(lua.LNumber); ok {
		f := float64(n)
		return &f
	}
	return nil
}

func luaInt(L *lua.LState, tbl *lua.LTable, key string) *int {
	if f := luaNum(L, tbl, key); f != nil {
		i := int(*f)
		return &i
	}
	return nil
}

func luaBool(L *lua.LState, tbl *lua.LTable, key string) *bool {
	v := L.GetField(tbl, key)
	if b, ok := v.(lua.LBool); ok {
		bb := bool(b)
		return &bb
	}
	return nil
}

// tableToUpdate maps a Lua table onto a ParamsUpdate diff.
func tableToUpdate(L *lua.LState, tbl *lua.LTable) ParamsUpdate {
	var u ParamsUpdate
	u.ReferenceFrequency = luaNum(L, tbl, "referenceFrequency")
	u.ReferenceAmplitude = luaNum(L, tbl, "referenceAmplitude")
	u.ModulatingFrequency = luaNum(L, tbl, "modulatingFrequency")
	u.ModulationIndex = luaNum(L, tbl, "modulationIndex")
	u.PhaseShiftDeg = luaNum(L, tbl, "phaseShift")
	u.SensorOutputAmplitude = luaNum(L, tbl, "sensorOutputAmplitude")
	u.WhiteNoiseAmplitude = luaNum(L, tbl, "whiteNoiseAmplitude")
	u.BPFEnabled = luaBool(L, tbl, "bpfEnabled")
	u.BPFCenterFrequency = luaNum(L, tbl, "bpfCenterFrequency")
	u.BPFBandwidth = luaNum(L, tbl, "bpfBandwidth")
	u.BPFOrder = luaInt(L, tbl, "bpfOrder")
	u.LPFCutoffFrequency = luaNum(L, tbl, "lpfCutoffFrequency")
	u.LPFOrder = luaInt(L, tbl, "lpfOrder")
	u.TimeScaleMsPerDiv = luaNum(L, tbl, "timeScale")

	if v := L.GetField(tbl, "mixerMode"); v != lua.LNil {
		if s, ok := v.(lua.LString); ok {
			mode := MIXER_ANALOG
			if string(s) == "digital" {
				mode = MIXER_DIGITAL
			}
			u.MixerMode = &mode
		}
	}

	if v := L.GetField(tbl, "interferers"); v != lua.LNil {
		if list, ok := v.(*lua.LTable); ok {
			var ifs []InterfererParams
			list.ForEach(func(_, item lua.LValue) {
				entry, ok := item.(*lua.LTable)
				if !ok {
					return
				}
				var it InterfererParams
				if id := luaInt(L, entry, "id"); id != nil {
					it.ID = *id
				}
				if f := luaNum(L, entry, "frequency"); f != nil {
					it.Frequency = *f
				}
				if a := luaNum(L, entry, "amplitude"); a != nil {
					it.Amplitude = *a
				}
				ifs = append(ifs, it)
			})
			u.Interferers = &ifs
		}
	}
	return u
}

func (sh *ScriptHost) luaUpdate(L *lua.LState) int {
	tbl := L.CheckTable(1)
	if err := sh.engine.UpdateParams(tableToUpdate(L, tbl)); err != nil {
		L.RaiseError("update: %v", err)
	}
	return 0
}

func (sh *ScriptHost) luaOutputs(L *lua.LState) int {
	frame, ok := sh.engine.LatestFrame()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	L.SetField(tbl, "i", lua.LNumber(frame.Outputs.I))
	L.SetField(tbl, "q", lua.LNumber(frame.Outputs.Q))
	L.SetField(tbl, "signedOutput", lua.LNumber(frame.Outputs.SignedOutput))
	L.SetField(tbl, "phase", lua.LNumber(frame.Outputs.PhaseDeg))
	L.SetField(tbl, "effectiveSampleRate", lua.LNumber(frame.EffectiveSampleRate))
	L.SetField(tbl, "dataLength", lua.LNumber(frame.DataLength))
	L.Push(tbl)
	return 1
}

func (sh *ScriptHost) luaSleep(L *lua.LState) int {
	ms := L.CheckNumber(1)
	if ms > 0 {
		time.Sleep(time.Duration(float64(ms)) * time.Millisecond)
	}
	return 0
}

func (sh *ScriptHost) luaMonitor(L *lua.LState) int {
	name := L.CheckString(1)
	idx := -1
	if name != "off" {
		var ok bool
		idx, ok = ChannelIndex(name)
		if !ok {
			L.RaiseError("monitor: unknown channel %q", name)
		}
	}
	if err := sh.engine.SetMonitorChannel(idx); err != nil {
		L.RaiseError("monitor: %v", err)
	}
	return 0
}

func (sh *ScriptHost) luaExport(L *lua.LState) int {
	channel := L.CheckString(1)
	path := L.CheckString(2)
	if err := ExportChannelWAV(sh.engine, channel, path); err != nil {
		L.RaiseError("export: %v", err)
	}
	return 0
}

func (sh *ScriptHost) luaStop(L *lua.LState) int {
	sh.engine.Stop()
	return 0
}
