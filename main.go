// main.go - IntuitionScope entry point

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionScope
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
)

func boilerPlate() {
	fmt.Println("\nIntuitionScope - real-time lock-in amplifier simulator")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionScope")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
}

func main() {
	points := flag.Int("points", DEFAULT_SNAPSHOT_POINTS, "snapshot points per channel")
	script := flag.String("script", "", "run a Lua automation script instead of the interactive monitor")
	listen := flag.String("listen", "", "chain tap to route to the audio monitor (e.g. sensor, iOutput)")
	wavOut := flag.String("wav", "", "export this channel:path as WAV on exit (e.g. sensor:/tmp/sensor.wav)")
	seconds := flag.Float64("seconds", 0, "run headless for this long and exit (0 = interactive)")
	noIPC := flag.Bool("no-ipc", false, "disable the unix-socket control channel")
	flag.Parse()

	boilerPlate()

	engine := NewEngine()
	shared := NewSharedRegion(*points)
	if err := engine.Init(shared, *points); err != nil {
		log.Fatalf("init: %v", err)
	}

	params := DefaultEngineParams()
	if err := engine.Start(params); err != nil {
		log.Fatalf("start: %v", err)
	}
	defer engine.Stop()

	if !*noIPC {
		ipc, err := NewIPCServer(engine)
		if err != nil {
			log.Printf("ipc: %v", err)
		} else {
			ipc.Start()
			defer ipc.Stop()
		}
	}

	monitor, err := NewOtoMonitor(int(params.SampleRate), engine.Tap())
	if err != nil {
		log.Printf("audio monitor unavailable: %v", err)
	} else {
		monitor.Start()
		defer monitor.Close()
	}
	if *listen != "" {
		idx, ok := ChannelIndex(*listen)
		if !ok {
			log.Fatalf("unknown channel: %s", *listen)
		}
		if err := engine.SetMonitorChannel(idx); err != nil {
			log.Printf("monitor routing: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	switch {
	case *script != "":
		host := NewScriptHost(engine)
		if err := host.Run(*script); err != nil {
			log.Fatalf("script: %v", err)
		}
	case *seconds > 0 || !term.IsTerminal(int(os.Stdin.Fd())):
		runHeadless(engine, *seconds, sigCh)
	default:
		tm := NewTerminalMonitor(engine, params)
		go func() {
			<-sigCh
			tm.Stop()
		}()
		if err := tm.Run(); err != nil {
			log.Printf("monitor: %v", err)
		}
	}

	if *wavOut != "" {
		channel, path, ok := splitChannelPath(*wavOut)
		if !ok {
			log.Fatalf("bad -wav value %q, want channel:path", *wavOut)
		}
		if err := ExportChannelWAV(engine, channel, path); err != nil {
			log.Fatalf("wav export: %v", err)
		}
		log.Printf("wrote %s channel to %s", channel, path)
	}
}

// runHeadless logs one output line per second until the deadline or signal.
func runHeadless(engine *Engine, seconds float64, sigCh <-chan os.Signal) {
	deadline := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	if seconds <= 0 {
		deadline.Stop()
	}
	report := time.NewTicker(time.Second)
	defer report.Stop()

	for {
		select {
		case <-sigCh:
			return
		case <-deadline.C:
			return
		case <-report.C:
			if frame, ok := engine.LatestFrame(); ok {
				o := frame.Outputs
				log.Printf("i=%+.5f q=%+.5f out=%+.5f phase=%+.2f°", o.I, o.Q, o.SignedOutput, o.PhaseDeg)
			}
		}
	}
}

func splitChannelPath(s string) (channel, path string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:], i > 0 && i+1 < len(s)
		}
	}
	return "", "", false
}
