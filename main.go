package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stridehq/stride/internal/coach"
	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/store"
	"github.com/stridehq/stride/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	var coachClient *coach.Client
	if cfg.Coach.APIKey != "" {
		coachClient = coach.NewClient(cfg.Coach.BaseURL, cfg.Coach.APIKey, cfg.Coach.Model)
	}

	app := tui.NewApp(s, coachClient)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
