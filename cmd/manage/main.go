// Command manage runs maintenance tasks against the site database:
// migrations, the mojibake repair job, seeding and content import.
//
// Usage:
//
//	manage migrate [up|down|status]
//	manage fix-mojibake [-dry-run]
//	manage seed-services -file services.json
//	manage seed-schedule [-months 8] [-min-events 110] [-seed 42]
//	manage import-content -file content.yaml
//
// Configuration is read from the same environment variables as the API
// server. Reports go to stdout; logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// errUsage marks errors caused by bad arguments; run exits with 2 for them.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, connect))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, open opener) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "manage: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	exec := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	le := &lazyEnv{open: open}
	defer le.close()

	err := exec(ctx, fs.Args(), le, stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "manage %s: %v\n", args[0], err)
		fs.Usage()
		return 2
	default:
		slog.ErrorContext(ctx, "command failed", "command", args[0], "error", err)
		fmt.Fprintf(stderr, "manage %s: %v\n", args[0], err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: manage <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandNames() {
		fmt.Fprintf(w, "  %-16s %s\n", name, commands[name].summary)
	}
}
