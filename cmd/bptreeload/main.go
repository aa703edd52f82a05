// Command bptreeload is the bulk-loader collaborator described in spec
// section 6.3: it reads "<key> <value>" pairs from a text file, one per
// line, and calls db_insert for each. It is a thin consumer of the public
// btree.Tree API, same as cmd/bptreeql.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gokv/bptreedb/internal/btree"
	"github.com/gokv/bptreedb/internal/dbconfig"
	"github.com/gokv/bptreedb/internal/page"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "path to the table file to open (created if absent)")
		loadPath   = flag.String("load", "", "text file of '<key> <value>' pairs to insert")
		configPath = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	cfg, err := dbconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptreeload: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if *dbPath == "" || *loadPath == "" {
		fmt.Fprintln(os.Stderr, "bptreeload: both -db and -load are required")
		os.Exit(1)
	}
	dbFile := *dbPath
	if !filepath.IsAbs(dbFile) {
		dbFile = filepath.Join(cfg.Storage.DataDir, dbFile)
	}

	tr, err := openOrCreate(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptreeload: open %s: %v\n", dbFile, err)
		os.Exit(1)
	}
	defer tr.Close()

	inserted, skipped, err := load(tr, *loadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptreeload: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("loaded %s: %d inserted, %d malformed lines skipped\n", *loadPath, inserted, skipped)
}

func openOrCreate(path string) (*btree.Tree, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return btree.Create(path)
	}
	return btree.Open(path)
}

// load reads "<key> <value>" pairs, one per line, from path and inserts
// each into tr. A malformed line is logged and skipped rather than
// aborting the whole load, matching the loader's role as a best-effort
// bulk-import tool rather than a transactional one.
func load(tr *btree.Tree, path string) (inserted, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			slog.Warn("bptreeload.skip", "line", lineNo, "reason", "expected '<key> <value>'")
			skipped++
			continue
		}
		key, parseErr := strconv.ParseInt(fields[0], 10, 64)
		if parseErr != nil {
			slog.Warn("bptreeload.skip", "line", lineNo, "reason", "bad key", "error", parseErr)
			skipped++
			continue
		}
		value := fields[1]
		if len(value) > page.MaxValueLen {
			slog.Warn("bptreeload.skip", "line", lineNo, "reason", "value too long")
			skipped++
			continue
		}
		if err := tr.Insert(key, page.Value(value)); err != nil {
			return inserted, skipped, fmt.Errorf("insert %d at line %d: %w", key, lineNo, err)
		}
		inserted++
	}
	if err := sc.Err(); err != nil {
		return inserted, skipped, fmt.Errorf("scan %s: %w", path, err)
	}
	return inserted, skipped, nil
}
