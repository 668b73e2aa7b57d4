package main

import (
	"fmt"
	"os"

	"overhex/internal/editor"
	"overhex/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	debug := os.Getenv("OVERHEX_DEBUG") != ""
	if err := logger.Init(debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	var filename string
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	model := editor.NewModel(filename)

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
