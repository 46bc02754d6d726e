// Command coredb is a line-oriented REPL around the engine: it reads
// one SQL statement per line, runs it in its own transaction, and
// prints a result set or an affected-row count, the same contract
// original_source's test clients drive a Planner through (see
// original_source/src/server/simpledb.cpp and the `test/` programs),
// adapted to the teacher's convention of one `main.go` per cmd/
// entry point.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/coredb-project/coredb/internal/config"
	"github.com/coredb-project/coredb/internal/server"
	"github.com/coredb-project/coredb/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a coredb.ini file (defaults are used if omitted)")
	dataDir := flag.String("datadir", "", "database directory, overrides the config file's data_dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "coredb: loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if err := logger.InitLogger(logger.LogConfig{InfoLogPath: cfg.LogFile, LogLevel: cfg.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "coredb: initializing logger: %v\n", err)
		os.Exit(1)
	}

	db, err := server.NewDatabase(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "coredb: starting database at %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}

	fmt.Printf("coredb ready, data dir %s. Enter SQL statements, blank line or Ctrl-D to quit.\n", cfg.DataDir)
	repl(db, os.Stdin, os.Stdout)
}

func repl(db *server.Database, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "sql> ")
		if !scanner.Scan() {
			break
		}
		stmt := strings.TrimSpace(scanner.Text())
		if stmt == "" {
			continue
		}
		result, err := db.Exec(stmt)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printResult(result, out)
	}
}

func printResult(result *server.Result, out *os.File) {
	if !result.IsQuery {
		fmt.Fprintf(out, "%d row(s) affected\n", result.AffectedRows)
		return
	}
	fmt.Fprintln(out, strings.Join(result.Fields, "\t"))
	for _, row := range result.Rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
	fmt.Fprintf(out, "(%d row(s))\n", len(result.Rows))
}
