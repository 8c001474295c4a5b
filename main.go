// ABOUTME: Entry point for the pad sampler
// ABOUTME: Parses CLI flags, wires the engine, front-ends and remote, and runs the session
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/app"
	"github.com/Resonate-Protocol/padsampler-go/internal/cache"
	"github.com/Resonate-Protocol/padsampler-go/internal/config"
	"github.com/Resonate-Protocol/padsampler-go/internal/discovery"
	"github.com/Resonate-Protocol/padsampler-go/internal/midiin"
	"github.com/Resonate-Protocol/padsampler-go/internal/presets"
	"github.com/Resonate-Protocol/padsampler-go/internal/remote"
	"github.com/Resonate-Protocol/padsampler-go/internal/ui"
	"github.com/Resonate-Protocol/padsampler-go/internal/version"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/output"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
)

const (
	gridWidth  = 64
	gridHeight = 8
)

func main() {
	env := config.Load()

	serverURL := flag.String("server", env.Server, "Preset server base URL (default: discover over mDNS)")
	name := flag.String("name", "", "Remote control name (default: hostname-padsampler)")
	canvasWidth := flag.Int("canvas-width", env.CanvasWidth, "Trim canvas width in pixels")
	canvasHeight := flag.Int("canvas-height", env.CanvasHeight, "Waveform PNG height in pixels")
	sampleRate := flag.Int("sample-rate", env.SampleRate, "Output sample rate")
	channels := flag.Int("channels", env.Channels, "Output channels (1 or 2)")
	outputName := flag.String("output", env.Output, "Audio output: oto or null")
	masterVolume := flag.Int("volume", 100, "Master output volume (0-100)")
	maxLoads := flag.Int("max-loads", env.MaxLoads, "Concurrent sample downloads per preset")
	cacheDir := flag.String("cache-dir", env.CacheDir, "Sample cache directory")
	recordDir := flag.String("record-dir", env.RecordDir, "Directory for recordings")
	recordFormat := flag.String("record-format", env.RecordFormat, "Recording container: wav or ogg")
	exportDir := flag.String("export-dir", ".", "Directory for waveform PNG exports")
	midiPort := flag.String("midi-port", env.MIDIPort, "MIDI input port name (substring match)")
	listMIDI := flag.Bool("list-midi", false, "List MIDI input ports and exit")
	remotePort := flag.Int("remote-port", env.RemotePort, "WebSocket remote port (0 disables)")
	logFile := flag.String("log-file", env.LogFile, "Log file path")
	debug := flag.Bool("debug", env.Debug, "Enable debug logging")
	noTUI := flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	flag.Parse()

	if *listMIDI {
		ports := midiin.InPorts()
		if len(ports) == 0 {
			fmt.Println("No MIDI input ports (build with -tags rtmidi for hardware support)")
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	remoteName := *name
	if remoteName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		remoteName = fmt.Sprintf("%s-padsampler", hostname)
	}

	log.Printf("Starting %s %s: %s", version.Product, version.Version, remoteName)

	base := *serverURL
	if base == "" {
		log.Printf("Starting preset server discovery...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		found, err := discovery.FindServer(ctx)
		cancel()
		if err != nil {
			log.Fatalf("No preset server found after 10 seconds (use -server): %v", err)
		}
		base = found.URL()
		log.Printf("Discovered preset server %s at %s", found.Name, base)
	}

	sampleCache, err := cache.New(*cacheDir, nil, *debug)
	if err != nil {
		log.Fatalf("Failed to create sample cache: %v", err)
	}
	client := presets.NewClient(base, sampleCache, *debug)

	engine, err := sampler.New(sampler.Config{
		Output:           audio.Format{SampleRate: *sampleRate, Channels: *channels, BitDepth: 16},
		MaxParallelLoads: *maxLoads,
		Fetcher:          client,
		Decoder:          decode.DefaultRegistry(),
		OnLoadError: func(e *sampler.LoadError) {
			log.Printf("Sample failed to load: %v", e)
		},
		RecordDir:    *recordDir,
		RecordFormat: *recordFormat,
		Debug:        *debug,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	out := output.New(*outputName)
	if v, ok := out.(interface{ SetVolume(int) }); ok {
		v.SetVolume(*masterVolume)
	}
	if err := out.Open(engine.Mixer().Format(), engine.Mixer()); err != nil {
		log.Fatalf("Failed to open %s output: %v", *outputName, err)
	}
	defer out.Close()

	session, err := app.New(app.Config{
		CanvasWidth:  *canvasWidth,
		CanvasHeight: *canvasHeight,
		GridWidth:    gridWidth,
		GridHeight:   gridHeight,
		// One terminal cell either side of a bar
		HitRadius: float64(*canvasWidth) / gridWidth,
		Debug:     *debug,
	}, engine, client)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	// Observers must be registered before the session runs
	var tui *ui.TUI
	if useTUI {
		tui = ui.New(session, *exportDir)
	}

	if *remotePort > 0 {
		rs := remote.New(remote.Config{Port: *remotePort, Name: remoteName, Debug: *debug}, session)
		session.AddObserver(app.NewRemoteObserver(rs))
		go func() {
			if err := rs.Start(); err != nil {
				log.Printf("Remote control error: %v", err)
			}
		}()
		defer rs.Stop()
	}

	if *midiPort != "" {
		listener := midiin.New(session.Post, *debug)
		if err := listener.Open(*midiPort); err != nil {
			log.Printf("MIDI disabled: %v", err)
		} else {
			log.Printf("Listening for MIDI on %s", listener.Port())
			defer listener.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		if err := session.Run(ctx); err != nil {
			log.Printf("Session error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if tui != nil {
		go func() {
			sig := <-sigChan
			log.Printf("Received %v signal, shutting down...", sig)
			tui.Quit()
		}()
		if err := tui.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
	} else {
		select {
		case sig := <-sigChan:
			log.Printf("Received %v signal, shutting down...", sig)
		case <-sessionDone:
		}
	}

	cancel()
	<-sessionDone
	log.Printf("Sampler stopped")
}
