// Command bptreeql is the interactive REPL collaborator described in
// spec section 6.3: it opens one table file and drives it through the
// public btree.Tree API with the single-letter command set of the
// original reference program (i/f/d/r/t/l/v/x/q/?). It never imports
// internal/pager or internal/space; the table is driven only through
// internal/btree.Tree, and internal/page is used only for the value type
// and its length limit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/gokv/bptreedb/internal/btree"
	"github.com/gokv/bptreedb/internal/dbconfig"
	"github.com/gokv/bptreedb/internal/page"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".bptreeql_history"
	}
	return filepath.Join(home, ".bptreeql_history")
}

func main() {
	var (
		dbPath     = flag.String("db", "", "path to the table file to open (created if absent)")
		configPath = flag.String("config", "", "optional YAML config file (storage.data_dir, log.level)")
		histPath   = flag.String("history", defaultHistoryPath(), "readline history file")
	)
	flag.Parse()

	cfg, err := dbconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptreeql: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "bptreeql: -db is required")
		os.Exit(1)
	}
	path := *dbPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Storage.DataDir, path)
	}

	tr, err := openOrCreate(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptreeql: open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer tr.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptreeql: readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	repl := &repl{tr: tr, rl: rl}
	repl.run()
}

// openOrCreate bootstraps a fresh table file when none exists yet; this is
// the extension the pager contract allows (spec section 4.A) on top of the
// minimal "open an existing file" requirement.
func openOrCreate(path string) (*btree.Tree, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return btree.Create(path)
	}
	return btree.Open(path)
}

type repl struct {
	tr      *btree.Tree
	rl      *readline.Instance
	verbose bool
}

func (r *repl) run() {
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil { // io.EOF
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !r.dispatch(line) {
			return
		}
	}
}

// dispatch executes one command line and returns false when the REPL
// should exit.
func (r *repl) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "i":
		r.cmdInsert(args)
	case "f":
		r.cmdFind(args)
	case "d":
		r.cmdDelete(args)
	case "r":
		r.cmdRange(args)
	case "t":
		r.cmdPrintTree()
	case "l":
		r.cmdPrintLeaves()
	case "v":
		r.verbose = !r.verbose
		fmt.Printf("verbose output %s\n", onOff(r.verbose))
	case "x":
		fmt.Println("destroying a live tree in place is not supported; delete the table file and restart")
	case "q":
		return false
	default:
		r.usage()
	}
	return true
}

func (r *repl) cmdInsert(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: i <key> <value>")
		return
	}
	key, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad key %q: %v\n", args[0], err)
		return
	}
	value := args[1]
	if len(value) > page.MaxValueLen {
		fmt.Printf("value too long: %d bytes, max %d\n", len(value), page.MaxValueLen)
		return
	}
	if err := r.tr.Insert(key, page.Value(value)); err != nil {
		fmt.Printf("insert failed: %v\n", err)
		return
	}
	if r.verbose {
		r.cmdPrintTree()
	}
}

func (r *repl) cmdFind(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: f <key>")
		return
	}
	key, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad key %q: %v\n", args[0], err)
		return
	}
	v, err := r.tr.Find(key)
	if err != nil {
		fmt.Printf("key %d not found\n", key)
		return
	}
	fmt.Printf("key %d: value %s\n", key, v)
}

func (r *repl) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: d <key>")
		return
	}
	key, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad key %q: %v\n", args[0], err)
		return
	}
	if err := r.tr.Delete(key); err != nil {
		fmt.Printf("key %d not found\n", key)
		return
	}
	if r.verbose {
		r.cmdPrintTree()
	}
}

func (r *repl) cmdRange(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: r <low> <high>")
		return
	}
	lo, err1 := strconv.ParseInt(args[0], 10, 64)
	hi, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		fmt.Println("usage: r <low> <high>")
		return
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	recs, err := r.tr.RangeScan(lo, hi)
	if err != nil {
		fmt.Printf("range scan failed: %v\n", err)
		return
	}
	for _, rec := range recs {
		fmt.Printf("key %d: value %s\n", rec.Key, rec.Value)
	}
	fmt.Printf("(%d records)\n", len(recs))
}

func (r *repl) cmdPrintTree() {
	s, err := r.tr.DebugString()
	if err != nil {
		fmt.Printf("print tree failed: %v\n", err)
		return
	}
	fmt.Println(s)
}

func (r *repl) cmdPrintLeaves() {
	s, err := r.tr.DebugLeaves()
	if err != nil {
		fmt.Printf("print leaves failed: %v\n", err)
		return
	}
	fmt.Println(s)
}

func (r *repl) usage() {
	fmt.Println(`commands:
  i <key> <value>   insert
  f <key>            find
  d <key>            delete
  r <k1> <k2>        inclusive range scan
  t                  print tree
  l                  print leaves
  v                  toggle verbose (print tree after i/d)
  x                  destroy tree (unsupported on a live handle)
  q                  quit
  ?                  show this help`)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
