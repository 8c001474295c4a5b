// ABOUTME: Command line remote for a running sampler and its preset server
// ABOUTME: Sends pad, trim, preset and recording commands over the WebSocket remote
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/internal/config"
	"github.com/Resonate-Protocol/padsampler-go/internal/discovery"
	"github.com/Resonate-Protocol/padsampler-go/internal/presets"
	"github.com/Resonate-Protocol/padsampler-go/internal/version"
	"github.com/Resonate-Protocol/padsampler-go/pkg/protocol"
)

const usage = `usage: padctl [flags] <command> [args]

sampler commands (over -addr):
  state                       print the session state
  watch                       stream state, pad and recording events
  trigger <pad>               play a pad
  note <note> [velocity]      send a MIDI note-on
  trim <pad> <start> <end>    set trims in canvas pixels
  set <pad> volume|pan <v>    change a pad setting
  load <preset-key>           switch preset
  record start|stop           control recording

preset server commands (over -server):
  presets                     list presets
  show <name>                 print one preset
  upload <name> <type> <files...>
  delete <name>               delete a preset

flags:
`

func main() {
	env := config.Load()

	addr := flag.String("addr", fmt.Sprintf("localhost:%d", env.RemotePort), "Sampler remote address")
	serverURL := flag.String("server", env.Server, "Preset server base URL (default: discover over mDNS)")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout for one-shot commands")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if cmd.name != "watch" {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, *timeout)
		defer stop()
	}

	if cmd.presetServer {
		err = runPresetCommand(ctx, *serverURL, cmd)
	} else {
		err = runRemoteCommand(ctx, *addr, cmd)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd.name, err)
	}
}

func runRemoteCommand(ctx context.Context, addr string, cmd command) error {
	hostname, _ := os.Hostname()
	client := protocol.NewClient(protocol.Config{
		ServerAddr: addr,
		Name:       fmt.Sprintf("%s-padctl", hostname),
		DeviceInfo: protocol.DeviceInfo{
			ProductName:     "padctl",
			Manufacturer:    version.Manufacturer,
			SoftwareVersion: version.Version,
		},
	})
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	// The server sends its state right after the handshake
	var state protocol.SessionState
	select {
	case state = <-client.State:
	case <-ctx.Done():
		return ctx.Err()
	}

	switch cmd.name {
	case "state":
		return printJSON(state)
	case "watch":
		return watch(ctx, client, state)
	case "trigger":
		return client.TriggerPad(cmd.pad)
	case "note":
		return client.SendNote(cmd.note, cmd.velocity)
	case "trim":
		return client.SetTrim(cmd.pad, cmd.from, cmd.to)
	case "set":
		return client.SetSetting(cmd.pad, cmd.setting, cmd.value)
	case "load":
		return client.SelectPreset(cmd.key)
	case "record":
		if cmd.start {
			return client.StartRecording()
		}
		if err := client.StopRecording(); err != nil {
			return err
		}
		select {
		case rec := <-client.RecordingStopped:
			return printJSON(rec)
		case e := <-client.Errors:
			return fmt.Errorf("%s", e.Message)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("unknown command %q", cmd.name)
}

func watch(ctx context.Context, client *protocol.Client, state protocol.SessionState) error {
	if err := printJSON(state); err != nil {
		return err
	}
	for {
		select {
		case s := <-client.State:
			if err := printJSON(s); err != nil {
				return err
			}
		case p := <-client.PadPlayed:
			fmt.Printf("pad %d played (%s)\n", p.Index, p.Source)
		case r := <-client.RecordingStopped:
			fmt.Printf("recording saved: %s (%dms)\n", r.Path, r.DurationMs)
		case e := <-client.Errors:
			fmt.Printf("error: %s\n", e.Message)
		case <-ctx.Done():
			return nil
		}
		if !client.IsConnected() {
			return fmt.Errorf("connection closed")
		}
	}
}

func runPresetCommand(ctx context.Context, base string, cmd command) error {
	if base == "" {
		found, err := discovery.FindServer(ctx)
		if err != nil {
			return err
		}
		base = found.URL()
		log.Printf("Using preset server %s", base)
	}
	client := presets.NewClient(base, nil, false)

	switch cmd.name {
	case "presets":
		list, err := client.ListPresets(ctx)
		if err != nil {
			return err
		}
		for _, key := range presets.Keys(list) {
			p := list[key]
			fmt.Printf("%-20s %-10s %d samples\n", p.DisplayName(), p.Type, len(p.Samples))
		}
		return nil
	case "show":
		p, err := client.GetPreset(ctx, cmd.key)
		if err != nil {
			return err
		}
		return printJSON(p)
	case "upload":
		files := make([]presets.UploadFile, 0, len(cmd.files))
		for _, path := range cmd.files {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			files = append(files, presets.UploadFile{Name: filepath.Base(path), Data: data})
		}
		p, err := client.Upload(ctx, cmd.key, cmd.kind, files)
		if err != nil {
			return err
		}
		return printJSON(p)
	case "delete":
		p, err := client.GetPreset(ctx, cmd.key)
		if err != nil {
			return err
		}
		return client.DeletePreset(ctx, p)
	}
	return fmt.Errorf("unknown command %q", cmd.name)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
