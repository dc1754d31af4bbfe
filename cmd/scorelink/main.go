// Package main is the entry point for the scorelink command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dshills/scorelink/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, app.ErrUnresolved) {
			return 2
		}
		return 1
	}

	return 0
}

// repeatFlag collects the values of a repeatable string flag.
type repeatFlag []string

func (r *repeatFlag) String() string {
	return strings.Join(*r, ",")
}

func (r *repeatFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

func parseFlags() app.Options {
	var opts app.Options
	var resolve, points, selections repeatFlag
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.DumpPath, "dump", "", "Path to the rendered document's link dump (JSON)")
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Scheme, "scheme", "", "Link URL scheme (default: textedit, or the configured value)")
	flag.IntVar(&opts.Verbosity, "verbosity", 0, "Added log verbosity; higher is chattier")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the dump when it changes and report again")
	flag.Var(&resolve, "resolve", "Link URL to resolve into a source position (repeatable)")
	flag.Var(&points, "point", "Caret query as file:line:column (repeatable)")
	flag.Var(&selections, "sel", "Selection query as file:start:end byte offsets (repeatable)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scorelink - correlate rendered scores with the text they were engraved from\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scorelink -dump links.json [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scorelink -dump out.json piece.ly                        Bind a source file and report\n")
		fmt.Fprintf(os.Stderr, "  scorelink -dump out.json -resolve textedit:///p.ly:12:4:4  Resolve a clicked link\n")
		fmt.Fprintf(os.Stderr, "  scorelink -dump out.json -point piece.ly:12:4 piece.ly   Map a caret to the score\n")
		fmt.Fprintf(os.Stderr, "  scorelink -dump out.json -watch piece.ly                 Keep reporting as the dump changes\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Scorelink %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.Resolve = resolve
	opts.Points = points
	opts.Selections = selections

	// Remaining arguments are source files to open and bind.
	opts.Files = flag.Args()

	return opts
}
