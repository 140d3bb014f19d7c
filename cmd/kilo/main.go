package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/barun-bash/kilo/internal/cli"
	"github.com/barun-bash/kilo/internal/config"
	"github.com/barun-bash/kilo/internal/editor"
	"github.com/barun-bash/kilo/internal/terminal"
	"github.com/barun-bash/kilo/internal/version"
)

func main() {
	// Parse global --no-color flag before dispatch
	args := filterGlobalFlags(os.Args[1:])

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("kilo %s\n", version.Info())
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, cli.Error("too many arguments"))
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	os.Exit(run(path))
}

// filterGlobalFlags strips --no-color from the args list and applies it.
func filterGlobalFlags(args []string) []string {
	var filtered []string
	for _, arg := range args {
		if arg == "--no-color" {
			cli.ColorEnabled = false
		} else {
			filtered = append(filtered, arg)
		}
	}
	return filtered
}

// run edits path (or an unnamed document when path is empty) until the user
// quits. Fatal errors after raw mode is entered go through Session.Die.
func run(path string) int {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Warn("No home directory, using default settings"))
	}
	cfg, err := config.Load(home)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Error(fmt.Sprintf("Config error: %v", err)))
		return 1
	}

	logger, closeLog, err := openDebugLog(cfg.DebugLog)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Error(fmt.Sprintf("Debug log: %v", err)))
		return 1
	}
	defer closeLog()

	sess := terminal.New(os.Stdin, os.Stdout, cfg.ReadTimeout())
	if err := sess.Enter(); err != nil {
		sess.Die(err)
	}
	rows, cols, err := sess.Size()
	if err != nil {
		sess.Die(err)
	}

	doc := editor.NewDocument(cfg.TabStop)
	if path != "" {
		doc, err = editor.Load(path, cfg.TabStop)
		if err != nil {
			sess.Die(err)
		}
		logger.Info("opened", "file", path, "rows", doc.NumRows())
	}

	ed := editor.New(doc, os.Stdin, os.Stdout, rows, cols, editor.Options{
		QuitTimes:      cfg.QuitTimes,
		MessageTimeout: cfg.MessageTimeout(),
		Logger:         logger,
	})
	if err := ed.Run(); err != nil {
		sess.Die(err)
	}

	if err := sess.Leave(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Error(err.Error()))
		return 1
	}
	return 0
}

// openDebugLog returns a text logger writing to path, or a discarding logger
// when path is empty.
func openDebugLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func printUsage() {
	w := os.Stdout
	fmt.Fprintln(w, "kilo: a small terminal text editor")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  kilo [file]            Edit file, or a new unnamed document")
	fmt.Fprintln(w, "  kilo version           Print the version")
	fmt.Fprintln(w, "  kilo help              Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --no-color             Disable colored diagnostics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keys:")
	fmt.Fprintln(w, "  Ctrl-S save   Ctrl-Q quit   Ctrl-F find")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration is read from ~/.kilo/config.json.")
}

