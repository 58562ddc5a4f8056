package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/sidedock/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: sidedock daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: sidedock daemon")
			os.Exit(2)
		}
		os.Exit(runDaemon())
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "panel":
		os.Exit(runPanel(os.Args[2:]))
	case "sidebar":
		os.Exit(runSidebar(os.Args[2:]))
	case "bounds":
		os.Exit(runBounds(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: sidedock <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the sidedock daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon and window status")
	fmt.Fprintln(w, "  monitors            List monitors known to the daemon")
	fmt.Fprintln(w, "  reload              Reload configuration in the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  panel list          List configured panels")
	fmt.Fprintln(w, "  panel show          Open a side panel")
	fmt.Fprintln(w, "  panel hide          Close the open side panel")
	fmt.Fprintln(w, "  panel toggle        Toggle a side panel")
	fmt.Fprintln(w, "  sidebar toggle      Toggle the sidebar")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  bounds forget       Drop the remembered window bounds")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'sidedock <command> --help' for command-specific options.")
}

func isHelpArg(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sidedock status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}
	fmt.Print(renderStatus(status, stdoutIsTerminal()))
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sidedock monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List monitors and their usable areas.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output monitors as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	fmt.Print(renderMonitors(data, stdoutIsTerminal()))
	return 0
}

func runReload(args []string) int {
	if len(args) > 0 && isHelpArg(args[0]) {
		fmt.Fprintln(os.Stdout, "Usage: sidedock reload")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func printPanelUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sidedock panel list [--json]")
	fmt.Fprintln(w, "  sidedock panel show <name>")
	fmt.Fprintln(w, "  sidedock panel hide")
	fmt.Fprintln(w, "  sidedock panel toggle <name>")
}

func runPanel(args []string) int {
	if len(args) == 0 {
		printPanelUsage(os.Stderr)
		return 2
	}
	if isHelpArg(args[0]) {
		printPanelUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output panels as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		data, err := client.ListPanels()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(data)
		}
		fmt.Printf("default_panel: %s\n", data.DefaultPanel)
		fmt.Printf("sidebar_open:  %v\n", data.SidebarOpen)
		for _, p := range data.Panels {
			marker := "-"
			if p.Open {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s (%dpx)", marker, p.Name, p.Width)
			if p.Hotkey != "" {
				line += " [" + p.Hotkey + "]"
			}
			fmt.Println(line)
		}
		return 0

	case "show", "toggle":
		if len(args) != 2 {
			fmt.Fprintf(os.Stderr, "panel %s requires <name>\n", args[0])
			printPanelUsage(os.Stderr)
			return 2
		}
		var err error
		if args[0] == "show" {
			err = client.ShowPanel(args[1])
		} else {
			err = client.TogglePanel(args[1])
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "hide":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "panel hide takes no arguments")
			return 2
		}
		if err := client.HidePanel(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown panel command: %s\n\n", args[0])
		printPanelUsage(os.Stderr)
		return 2
	}
}

func runSidebar(args []string) int {
	if len(args) == 0 || isHelpArg(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage: sidedock sidebar toggle")
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] != "toggle" || len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Unknown sidebar command: %s\n", args[0])
		return 2
	}
	if err := ipc.NewClient().ToggleSidebar(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runBounds(args []string) int {
	if len(args) == 0 || isHelpArg(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage: sidedock bounds forget")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Drop the remembered window bounds so the next start centers the window.")
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] != "forget" || len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Unknown bounds command: %s\n", args[0])
		return 2
	}
	if err := ipc.NewClient().ForgetBounds(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("bounds: forgotten")
	return 0
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}
