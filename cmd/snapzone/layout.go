package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/snapzone/internal/config"
	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/tui"
	"github.com/1broseidon/snapzone/internal/zones"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  snapzone layout list [--json]")
	fmt.Fprintln(w, "  snapzone layout show [--json] <id|name>")
	fmt.Fprintln(w, "  snapzone layout activate <id|name>")
	fmt.Fprintln(w, "  snapzone layout deactivate")
	fmt.Fprintln(w, "  snapzone layout create --preset PRESET [--name NAME]")
	fmt.Fprintln(w, "  snapzone layout delete <id|name>")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Presets: %s\n", strings.Join(zones.PresetNames, ", "))
	fmt.Fprintln(w, "Layouts are edited through the daemon when it runs, otherwise in the layout file.")
}

// openLayouts returns the daemon when reachable, otherwise the layout file
// named by the config.
func openLayouts() (tui.Source, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	storePath, err := cfg.ZoneStorePath()
	if err != nil {
		return nil, err
	}
	src, _, err := tui.OpenSource(ipc.NewClient(), storePath)
	return src, err
}

// resolveLayout matches ref against ids first, then against names
// case-insensitively. Ambiguous names are an error.
func resolveLayout(layouts []zones.Layout, ref string) (zones.Layout, error) {
	for _, l := range layouts {
		if l.ID == ref {
			return l, nil
		}
	}
	var matches []zones.Layout
	for _, l := range layouts {
		if strings.EqualFold(l.Name, ref) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return zones.Layout{}, fmt.Errorf("no zone layout %q", ref)
	case 1:
		return matches[0], nil
	default:
		return zones.Layout{}, fmt.Errorf("%d zone layouts are named %q; use the id", len(matches), ref)
	}
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if isHelp(args) {
		printLayoutUsage(os.Stdout)
		return 0
	}

	sub := args[0]
	fs := flag.NewFlagSet(sub, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printLayoutUsage(os.Stderr) }
	var (
		jsonOut *bool
		preset  *string
		name    *string
	)
	switch sub {
	case "list", "show":
		jsonOut = fs.Bool("json", false, "Output JSON")
	case "create":
		preset = fs.String("preset", "", "Preset: "+strings.Join(zones.PresetNames, ", "))
		name = fs.String("name", "", "Layout name (default: the preset)")
	case "activate", "deactivate", "delete":
	default:
		fmt.Fprintf(os.Stderr, "Unknown layout subcommand: %s\n\n", sub)
		printLayoutUsage(os.Stderr)
		return 2
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	wantArgs := 1
	if sub == "list" || sub == "deactivate" || sub == "create" {
		wantArgs = 0
	}
	if fs.NArg() != wantArgs {
		fs.Usage()
		return 2
	}

	src, err := openLayouts()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch sub {
	case "create":
		return layoutCreate(src, *preset, *name)
	case "deactivate":
		if err := src.SetActiveLayout(""); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("active_layout: none")
		return 0
	}

	data, err := src.ListZoneLayouts()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if sub == "list" {
		if *jsonOut {
			return printJSON(data)
		}
		printLayoutTable(os.Stdout, data)
		return 0
	}

	l, err := resolveLayout(data.Layouts, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch sub {
	case "show":
		if *jsonOut {
			return printJSON(l)
		}
		printLayoutDetail(os.Stdout, l, l.ID == data.ActiveLayoutID)
	case "activate":
		if err := src.SetActiveLayout(l.ID); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("active_layout: %s (%s)\n", l.Name, l.ID)
	case "delete":
		if err := src.DeleteZoneLayout(l.ID); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("deleted: %s (%s)\n", l.Name, l.ID)
	}
	return 0
}

func layoutCreate(src tui.Source, preset, name string) int {
	if preset == "" {
		fmt.Fprintln(os.Stderr, "layout create requires --preset")
		return 2
	}
	l, err := zones.FromPreset(name, preset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := src.SaveZoneLayout(l); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("created: %s (%s) with %d zones\n", l.Name, l.ID, len(l.Zones))
	return 0
}

// printLayoutTable aligns columns for a terminal and emits plain
// tab-separated rows for pipes.
func printLayoutTable(w io.Writer, data *ipc.ZoneLayoutsData) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, l := range data.Layouts {
			fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", l.ID, l.Name, len(l.Zones), l.ID == data.ActiveLayoutID)
		}
		return
	}

	nameWidth := 32
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 80 {
		nameWidth = width - 48
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTIVE\tID\tNAME\tZONES")
	for _, l := range data.Layouts {
		mark := ""
		if l.ID == data.ActiveLayoutID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", mark, l.ID, truncate(l.Name, nameWidth), len(l.Zones))
	}
	_ = tw.Flush()
	if len(data.Layouts) == 0 {
		fmt.Fprintln(w, "no zone layouts; create one with 'snapzone layout create --preset columns:2'")
	}
}

func printLayoutDetail(w io.Writer, l zones.Layout, active bool) {
	fmt.Fprintf(w, "id: %s\n", l.ID)
	fmt.Fprintf(w, "name: %s\n", l.Name)
	fmt.Fprintf(w, "active: %v\n", active)
	if l.ScreenWidth != nil && l.ScreenHeight != nil {
		fmt.Fprintf(w, "designed_for: %dx%d\n", *l.ScreenWidth, *l.ScreenHeight)
	}
	fmt.Fprintln(w, "zones:")
	for _, z := range l.Zones {
		fmt.Fprintf(w, "  %d: x=%.1f%% y=%.1f%% w=%.1f%% h=%.1f%%\n", z.Number, z.X, z.Y, z.Width, z.Height)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
