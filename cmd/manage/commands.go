package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pressly/goose/v3"
	"gopkg.in/yaml.v3"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/mojibake"
	"github.com/struchkova/konakovo-backend/internal/service"
	"github.com/struchkova/konakovo-backend/migrations"
)

// execFunc runs a command after its flags have been parsed.
type execFunc func(ctx context.Context, args []string, le *lazyEnv, out io.Writer) error

type command struct {
	summary string
	// setup registers the command's flags on fs and returns its body.
	setup func(fs *flag.FlagSet) execFunc
}

var commands = map[string]command{
	"migrate":        {"apply, roll back or list database migrations", setupMigrate},
	"fix-mojibake":   {"repair double-encoded Cyrillic text in stored content", setupFixMojibake},
	"seed-services":  {"replace services and tariffs from a JSON tree", setupSeedServices},
	"seed-schedule":  {"replace the schedule with a generated plan", setupSeedSchedule},
	"import-content": {"create articles, news and pages from a YAML file", setupImportContent},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ---- migrate ---------------------------------------------------------------

func setupMigrate(fs *flag.FlagSet) execFunc {
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: manage migrate [up|down|status]")
	}
	return func(ctx context.Context, args []string, le *lazyEnv, out io.Writer) error {
		action := "up"
		switch len(args) {
		case 0:
		case 1:
			action = args[0]
		default:
			return fmt.Errorf("%w: expected at most one action", errUsage)
		}
		if action != "up" && action != "down" && action != "status" {
			return fmt.Errorf("%w: unknown action %q", errUsage, action)
		}

		e, err := le.get(ctx)
		if err != nil {
			return err
		}
		provider, err := goose.NewProvider(goose.DialectPostgres, e.db, migrations.FS)
		if err != nil {
			return fmt.Errorf("create goose provider: %w", err)
		}

		switch action {
		case "up":
			results, err := provider.Up(ctx)
			printMigrationResults(out, results)
			if err != nil {
				return fmt.Errorf("goose up: %w", err)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
			}
		case "down":
			result, err := provider.Down(ctx)
			if result != nil {
				printMigrationResults(out, []*goose.MigrationResult{result})
			}
			if err != nil {
				return fmt.Errorf("goose down: %w", err)
			}
		case "status":
			statuses, err := provider.Status(ctx)
			if err != nil {
				return fmt.Errorf("goose status: %w", err)
			}
			for _, st := range statuses {
				applied := "Pending"
				if st.State == goose.StateApplied {
					applied = st.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%-20s %s\n", applied, baseName(st.Source.Path))
			}
		}
		return nil
	}
}

func printMigrationResults(out io.Writer, results []*goose.MigrationResult) {
	for _, r := range results {
		status := "OK"
		if r.Error != nil {
			status = "FAILED"
		}
		fmt.Fprintf(out, "%-6s %-4s %s (%s)\n", status, r.Direction, baseName(r.Source.Path), r.Duration.Round(1e6))
	}
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ---- fix-mojibake ----------------------------------------------------------

func setupFixMojibake(fs *flag.FlagSet) execFunc {
	dryRun := fs.Bool("dry-run", false, "report what would change and roll back")
	return func(ctx context.Context, args []string, le *lazyEnv, out io.Writer) error {
		if len(args) > 0 {
			return fmt.Errorf("%w: unexpected arguments %v", errUsage, args)
		}
		e, err := le.get(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Scanning content for mojibake...")
		report, err := service.NewRepairService(e.tx, mojibake.New(mojibake.DefaultParams()), e.log).Run(ctx, *dryRun)
		if err != nil {
			return err
		}
		printRepairReport(out, report, *dryRun)
		return nil
	}
}

func printRepairReport(out io.Writer, report domain.RepairReport, dryRun bool) {
	for _, fix := range report.Records {
		methods := make([]string, 0, len(fix.Methods))
		for _, name := range fix.MethodNames() {
			methods = append(methods, fmt.Sprintf("%s: %d", name, fix.Methods[name]))
		}
		fmt.Fprintf(out, "[FIXED] %s(id=%s): %s | %s\n",
			fix.Model, fix.ID, strings.Join(fix.Fields, ", "), strings.Join(methods, ", "))
	}

	fmt.Fprintln(out)
	if dryRun {
		fmt.Fprintln(out, "Dry run complete, nothing was saved.")
	} else {
		fmt.Fprintln(out, "Fix complete.")
	}
	fmt.Fprintf(out, "Records fixed: %d\n", report.RecordsFixed)
	fmt.Fprintf(out, "Fields changed: %d\n", report.FieldsChanged)
	if len(report.Methods) == 0 {
		fmt.Fprintln(out, "Methods used: none (no mojibake detected)")
		return
	}
	fmt.Fprintln(out, "Methods used:")
	for _, name := range report.MethodNames() {
		fmt.Fprintf(out, "- %s: %d\n", name, report.Methods[name])
	}
}

// ---- seed-services ---------------------------------------------------------

func setupSeedServices(fs *flag.FlagSet) execFunc {
	file := fs.String("file", "", "path to the services seed JSON (required)")
	return func(ctx context.Context, args []string, le *lazyEnv, out io.Writer) error {
		if *file == "" {
			return fmt.Errorf("%w: -file is required", errUsage)
		}
		items, err := readFile(*file, loadServiceSeeds)
		if err != nil {
			return err
		}

		e, err := le.get(ctx)
		if err != nil {
			return err
		}
		counts, err := service.NewSeedService(e.tx, e.cache, nil, e.log).SeedServices(ctx, items)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Services seeded successfully.")
		fmt.Fprintf(out, "Services created: %d\n", counts.Services)
		fmt.Fprintf(out, "Tariffs created: %d\n", counts.Tariffs)
		return nil
	}
}

// loadServiceSeeds decodes a services seed: a JSON array of root services.
func loadServiceSeeds(r io.Reader) ([]service.ServiceSeed, error) {
	var items []service.ServiceSeed
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("seed contains no services")
	}
	return items, nil
}

// ---- seed-schedule ---------------------------------------------------------

func setupSeedSchedule(fs *flag.FlagSet) execFunc {
	opts := service.DefaultScheduleOptions()
	fs.IntVar(&opts.Months, "months", opts.Months, "number of months to fill, starting with the current one")
	fs.IntVar(&opts.MinEvents, "min-events", opts.MinEvents, "minimum total number of events")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	return func(ctx context.Context, args []string, le *lazyEnv, out io.Writer) error {
		if opts.Months < 1 {
			return fmt.Errorf("%w: -months must be at least 1", errUsage)
		}
		if opts.MinEvents < 0 {
			return fmt.Errorf("%w: -min-events must not be negative", errUsage)
		}

		e, err := le.get(ctx)
		if err != nil {
			return err
		}
		counts, err := service.NewSeedService(e.tx, e.cache, nil, e.log).SeedSchedule(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Schedule seeded successfully.")
		fmt.Fprintf(out, "Days created: %d\n", counts.Days)
		fmt.Fprintf(out, "Events created: %d\n", counts.Events)
		return nil
	}
}

// ---- import-content --------------------------------------------------------

func setupImportContent(fs *flag.FlagSet) execFunc {
	file := fs.String("file", "", "path to the content YAML (required)")
	return func(ctx context.Context, args []string, le *lazyEnv, out io.Writer) error {
		if *file == "" {
			return fmt.Errorf("%w: -file is required", errUsage)
		}
		bundle, err := readFile(*file, loadContent)
		if err != nil {
			return err
		}

		e, err := le.get(ctx)
		if err != nil {
			return err
		}
		counts, err := service.NewSeedService(e.tx, e.cache, nil, e.log).ImportContent(ctx, bundle)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Content imported successfully.")
		fmt.Fprintf(out, "Articles created: %d\n", counts.Articles)
		fmt.Fprintf(out, "News created: %d\n", counts.News)
		fmt.Fprintf(out, "Pages created: %d\n", counts.Pages)
		return nil
	}
}

// loadContent decodes a content bundle. Unknown keys are rejected so that a
// misspelled field does not silently import empty values.
func loadContent(r io.Reader) (service.ContentBundle, error) {
	var b service.ContentBundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return b, errors.New("file is empty")
		}
		return b, fmt.Errorf("invalid YAML: %w", err)
	}
	return b, nil
}

func readFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	v, err := load(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
