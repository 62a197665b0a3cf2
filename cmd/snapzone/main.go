package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/snapzone/internal/config"
	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/layout"
	"github.com/1broseidon/snapzone/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "apply":
		os.Exit(runApply(os.Args[2:]))
	case "screens":
		os.Exit(runScreens(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: snapzone <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon             Run the snapping daemon")
	fmt.Fprintln(w, "  status             Show daemon status")
	fmt.Fprintln(w, "  apply <action>     Move the focused window (e.g. left-half, apply-zone:2)")
	fmt.Fprintln(w, "  screens            List monitors as the daemon sees them")
	fmt.Fprintln(w, "  layout <command>   Manage zone layouts")
	fmt.Fprintln(w, "  config <command>   Validate, print or explain the config")
	fmt.Fprintln(w, "  tui                Browse zone layouts interactively")
	fmt.Fprintln(w, "  mcp serve          Start the MCP server on stdio")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'snapzone <command> --help' for command-specific options.")
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone status [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime: %s\n", time.Duration(status.UptimeSeconds)*time.Second)
	if status.ActiveLayoutID != "" {
		fmt.Printf("active_layout: %s (%s)\n", status.ActiveLayoutName, status.ActiveLayoutID)
	} else {
		fmt.Println("active_layout: none")
	}
	fmt.Printf("drag_modifier: %s\n", status.DragModifier)
	fmt.Printf("drag_overlay: %v\n", status.DragOverlay)
	if last := status.LastAction; last != nil {
		fmt.Printf("last_action: %s -> %dx%d+%d+%d at %s\n",
			last.Action, last.Target.Width, last.Target.Height, last.Target.X, last.Target.Y,
			last.Applied.Format(time.RFC3339))
		if last.Title != "" {
			fmt.Printf("last_window: %s\n", last.Title)
		}
	}
	return 0
}

func runApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone apply <action>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Actions:")
		fmt.Fprintf(os.Stderr, "  %s\n", strings.Join(layout.Names(), ", "))
		fmt.Fprintln(os.Stderr, "  apply-zone:N, activate-layout:<id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	action, err := layout.ParseAction(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	res, err := ipc.NewClient().ApplyAction(action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if res == nil {
		fmt.Printf("applied: %s\n", action)
		return 0
	}
	fmt.Printf("applied: %s -> %dx%d+%d+%d\n", res.Action, res.Target.Width, res.Target.Height, res.Target.X, res.Target.Y)
	return 0
}

func runScreens(args []string) int {
	fs := flag.NewFlagSet("screens", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone screens [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().GetScreens()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	for _, s := range data.Screens {
		fmt.Printf("%d: %s %dx%d+%d+%d (usable %dx%d+%d+%d)\n", s.Index, s.Name,
			s.Bounds.Width, s.Bounds.Height, s.Bounds.X, s.Bounds.Y,
			s.Usable.Width, s.Usable.Height, s.Usable.X, s.Usable.Y)
	}
	return 0
}

func printJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || isHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  snapzone config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  snapzone config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  snapzone config explain [--path PATH] <yaml.path>")
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/snapzone/config.yaml)")
	printDefaults := fs.Bool("defaults", false, "Print built-in defaults (print only)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	load := func() (*config.LoadResult, error) {
		if *path == "" {
			return config.LoadWithSources()
		}
		return config.LoadFromPath(*path)
	}

	switch args[0] {
	case "validate":
		if _, err := load(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)
		res, err := load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage: snapzone tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Browse, activate, create and delete zone layouts.")
		fmt.Fprintln(os.Stderr, "Edits the layout file directly when the daemon is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Navigate layouts")
		fmt.Fprintln(os.Stderr, "  Enter, a  Activate selected layout")
		fmt.Fprintln(os.Stderr, "  x         Clear the active layout")
		fmt.Fprintln(os.Stderr, "  n         Create a layout from a preset")
		fmt.Fprintln(os.Stderr, "  d         Delete selected layout")
		fmt.Fprintln(os.Stderr, "  r         Refresh")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	storePath, err := cfg.ZoneStorePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(tui.Options{Client: ipc.NewClient(), StorePath: storePath}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
