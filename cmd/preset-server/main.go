// ABOUTME: Entry point for the preset server
// ABOUTME: Parses CLI flags and serves presets over HTTP
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/padsampler-go/internal/config"
	"github.com/Resonate-Protocol/padsampler-go/internal/server"
)

func main() {
	env := config.Load()

	port := flag.Int("port", env.PresetPort, "HTTP server port")
	root := flag.String("root", env.PresetRoot, "Preset directory (one folder per preset)")
	name := flag.String("name", env.PresetName, "Server friendly name (default: hostname-presets)")
	logFile := flag.String("log-file", "preset-server.log", "Log file path")
	debug := flag.Bool("debug", env.Debug, "Enable debug logging")
	noMDNS := flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	useTUI := flag.Bool("tui", false, "Show a status TUI instead of console logs")
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if *useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-presets", hostname)
	}

	log.Printf("Starting preset server: %s on port %d", serverName, *port)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)

	srv, err := server.New(server.Config{
		Port:       *port,
		Name:       serverName,
		Root:       *root,
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
		UseTUI:     *useTUI,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
