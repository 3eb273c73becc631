/*
main.go - Application entry point

PURPOSE:
  Initializes the bookshop ledger and runs the interactive menu.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Build the logger
  3. Open the SQLite store (migrates and seeds on first run)
  4. Wire the sales engine and the CLI
  5. Run the menu loop until the operator exits

COMMAND-LINE FLAGS:
  -db         SQLite database path (default: bookstore.db)
              Use ":memory:" for a throwaway session
  -log-level  Operational log level: debug, info, warn, error
              (default: warn; logs go to stderr, menu output to stdout)

The menu itself is the whole interface: no environment variables, no
non-interactive mode. Exit is always via the menu (choice 5 or Enter),
exit code 0.

SEE ALSO:
  - cli/menu.go: The menu loop
  - pos/engine.go: Sale operations
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/warp/bookshop-ledger/cli"
	"github.com/warp/bookshop-ledger/pos"
	"github.com/warp/bookshop-ledger/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "bookstore.db", "SQLite database path")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	store, err := sqlite.New(*dbPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	engine := pos.NewEngine(store, log)

	if err := cli.New(engine, os.Stdin, os.Stdout, log).Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
