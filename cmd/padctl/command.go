// ABOUTME: Argument parsing for padctl commands
// ABOUTME: Validates pad indexes, notes and settings before connecting
package main

import (
	"fmt"
	"strconv"

	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
)

type command struct {
	name         string
	presetServer bool

	pad      int
	note     uint8
	velocity uint8
	start    bool
	setting  string
	value    float64
	from     float64
	to       float64
	key      string
	kind     string
	files    []string
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, fmt.Errorf("missing command")
	}
	cmd := command{name: args[0]}
	rest := args[1:]

	need := func(n int) error {
		if len(rest) < n {
			return fmt.Errorf("%s needs %d argument(s)", cmd.name, n)
		}
		return nil
	}

	var err error
	switch cmd.name {
	case "state", "watch":
	case "trigger":
		if err = need(1); err == nil {
			cmd.pad, err = parsePad(rest[0])
		}
	case "note":
		if err = need(1); err != nil {
			break
		}
		cmd.velocity = 100
		if cmd.note, err = parseByte(rest[0]); err != nil {
			break
		}
		if len(rest) > 1 {
			cmd.velocity, err = parseByte(rest[1])
		}
	case "trim":
		if err = need(3); err != nil {
			break
		}
		if cmd.pad, err = parsePad(rest[0]); err != nil {
			break
		}
		if cmd.from, err = strconv.ParseFloat(rest[1], 64); err != nil {
			break
		}
		cmd.to, err = strconv.ParseFloat(rest[2], 64)
	case "set":
		if err = need(3); err != nil {
			break
		}
		if cmd.pad, err = parsePad(rest[0]); err != nil {
			break
		}
		var s sampler.Setting
		if s, err = sampler.ParseSetting(rest[1]); err != nil {
			break
		}
		cmd.setting = string(s)
		cmd.value, err = strconv.ParseFloat(rest[2], 64)
	case "load":
		if err = need(1); err == nil {
			cmd.key = rest[0]
		}
	case "record":
		if err = need(1); err != nil {
			break
		}
		switch rest[0] {
		case "start":
			cmd.start = true
		case "stop":
		default:
			err = fmt.Errorf("record takes start or stop, got %q", rest[0])
		}

	case "presets":
		cmd.presetServer = true
	case "show", "delete":
		cmd.presetServer = true
		if err = need(1); err == nil {
			cmd.key = rest[0]
		}
	case "upload":
		cmd.presetServer = true
		if err = need(3); err == nil {
			cmd.key, cmd.kind, cmd.files = rest[0], rest[1], rest[2:]
		}
	default:
		err = fmt.Errorf("unknown command %q", cmd.name)
	}
	return cmd, err
}

func parsePad(s string) (int, error) {
	pad, err := strconv.Atoi(s)
	if err != nil || pad < 0 || pad >= sampler.PadCount {
		return 0, fmt.Errorf("pad must be 0-%d, got %q", sampler.PadCount-1, s)
	}
	return pad, nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v > 127 {
		return 0, fmt.Errorf("expected 0-127, got %q", s)
	}
	return uint8(v), nil
}
