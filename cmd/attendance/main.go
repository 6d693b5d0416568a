package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/config"
	"example.com/attendance/internal/domain"
)

var errUsage = errors.New("usage")

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Printf("no .env overlay: %v", err)
	}
	cfg := config.Load()

	if err := run(cfg, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatalf("attendance: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: attendance <command> [flags]

Commands:
  validate   validate a check-in token read from -token or stdin
  issue      issue a signed check-in token
  filter     filter check-ins from a snapshot file
  stats      compute member statistics from a snapshot file
  feed       build a page of the activity feed from a snapshot file
  publish    replay a snapshot file onto Kafka as attendance events`)
}

// env carries what every command needs.
type env struct {
	cfg    config.Config
	loc    *time.Location
	stdin  io.Reader
	stdout io.Writer
}

func run(cfg config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	e := env{cfg: cfg, loc: loc, stdin: stdin, stdout: stdout}

	switch args[0] {
	case "validate":
		return e.validate(args[1:])
	case "issue":
		return e.issue(args[1:])
	case "filter":
		return e.filter(args[1:])
	case "stats":
		return e.stats(args[1:])
	case "feed":
		return e.feed(args[1:])
	case "publish":
		return e.publish(args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// clockFlag registers -now on fs. An empty value means the wall clock.
func (e env) clockFlag(fs *flag.FlagSet) func() (clock.Clock, error) {
	now := fs.String("now", "", "evaluate as of this RFC 3339 instant instead of the wall clock")
	return func() (clock.Clock, error) {
		if *now == "" {
			return clock.System(e.loc), nil
		}
		t, err := time.Parse(time.RFC3339, *now)
		if err != nil {
			return nil, fmt.Errorf("-now: %w", err)
		}
		return clock.Fixed(t.In(e.loc)), nil
	}
}

func readSnapshot(path string) (domain.Snapshot, error) {
	if path == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: -snapshot is required", errUsage)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

func (e env) write(v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
