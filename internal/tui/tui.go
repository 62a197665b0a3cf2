package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/snapzone/internal/ipc"
)

// Options selects the data source. A reachable daemon wins; otherwise the
// layout file at StorePath is edited directly.
type Options struct {
	Client    *ipc.Client
	StorePath string
}

// Run starts the zone layout browser and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	src, connected, err := OpenSource(opts.Client, opts.StorePath)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(src, connected), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
