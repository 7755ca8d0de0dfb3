package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anthropics/audioengine/backend/oto"
	"github.com/anthropics/audioengine/backend/wav"
	"github.com/anthropics/audioengine/internal/engineconfig"
	"github.com/anthropics/audioengine/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	exportPath := flag.String("export", "", "write durationSeconds of the scene to this WAV file and exit, instead of starting the TUI")
	duration := flag.Float64("duration", 4.0, "seconds to render in -export mode")
	useOto := flag.Bool("audio", false, "play through a real audio device instead of the mock backend in TUI mode")
	flag.Parse()

	cfg, err := engineconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	controller, renderer, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine init error: %v\n", err)
		os.Exit(1)
	}

	s, err := buildScene(controller)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scene error: %v\n", err)
		os.Exit(1)
	}

	if *exportPath != "" {
		runExport(*exportPath, renderer, cfg, *duration)
		return
	}

	m := newModel(controller, renderer, s)

	if *useOto {
		backend, err := oto.New(renderer, cfg.SampleRate, cfg.Channels, cfg.InternalBufferSize*4)
		if err != nil {
			fmt.Fprintf(os.Stderr, "audio device error: %v\n", err)
			os.Exit(1)
		}
		defer backend.Close()
		m.playing = true
		m.realBackend = true
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(path string, renderer *engine.Renderer, cfg engine.EngineConfig, durationSeconds float64) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := wav.Export(f, renderer, cfg.SampleRate, cfg.Channels, cfg.InternalBufferSize, durationSeconds); err != nil {
		fmt.Fprintf(os.Stderr, "export error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %.1fs to %s\n", durationSeconds, path)
}
