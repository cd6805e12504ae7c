// Command csmt is a small CLI around a pebble-backed compact sparse Merkle
// tree, in the teacher's cmd/eth2030 idiom: stdlib flag.FlagSet, a testable
// run(args) int entry point, and a startup banner logged before any work
// happens.
//
// Usage:
//
//	csmt [flags] <subcommand> [args]
//
// Subcommands:
//
//	insert <key> <value>   insert key -> value (fails if key is already present)
//	get <key>               print the value stored at key
//	prove <key>             print the root and side-node count of key's compact proof
//	verify <key> [value]    re-derive the root from the tree's own store for key (debugging aid)
//
// Flags:
//
//	--datadir   Data directory path (default: ~/.csmt)
//	--depth     Path bit-width (default: 254)
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/eth2030/csmt/csmt"
	"github.com/eth2030/csmt/field"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, rest, exit, code := parseFlags(args)
	if exit {
		return code
	}
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing subcommand (insert|get|prove|verify)")
		return 2
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("csmt %s starting", version)
	log.Printf("  datadir: %s", cfg.DataDir)
	log.Printf("  depth:   %d", cfg.Depth)

	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	tree, store, err := cfg.OpenTree()
	if err != nil {
		log.Printf("Failed to open tree: %v", err)
		return 1
	}
	defer store.Close()

	sub, subArgs := rest[0], rest[1:]
	switch sub {
	case "insert":
		return runInsert(tree, subArgs)
	case "get":
		return runGet(tree, subArgs)
	case "prove":
		return runProve(tree, subArgs)
	case "verify":
		return runVerify(tree, subArgs)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand %q\n", sub)
		return 2
	}
}

func runInsert(tree *csmt.Tree, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: usage: insert <key> <value>")
		return 2
	}
	if err := tree.InsertKV(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("root: %s\n", tree.Root())
	return 0
}

func runGet(tree *csmt.Tree, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: usage: get <key>")
		return 2
	}
	v, err := tree.GetKV(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("%v\n", v)
	return 0
}

func runProve(tree *csmt.Tree, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: usage: prove <key>")
		return 2
	}
	kf, err := csmt.ToFieldsDefault(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cp, err := tree.ProveCompact(kf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("root: %s\n", cp.Root)
	fmt.Printf("num_side_nodes: %d\n", cp.NumSideNodes)
	return 0
}

func runVerify(tree *csmt.Tree, args []string) int {
	if len(args) != 1 && len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: usage: verify <key> [value]")
		return 2
	}
	kf, err := csmt.ToFieldsDefault(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	proof, err := tree.Prove(kf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	membership := len(args) == 2
	var valueFields []field.Element
	if membership {
		valueFields, err = csmt.ToFieldsDefault(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	ok, _, err := csmt.Verify(tree.Hasher(), proof, kf, valueFields, membership)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("verify: %v\n", ok)
	return 0
}

// parseFlags parses CLI arguments into a Config plus whatever non-flag
// arguments followed (the subcommand and its own arguments).
func parseFlags(args []string) (csmt.Config, []string, bool, int) {
	cfg := csmt.DefaultConfig()
	fs := newFlagSet(&cfg)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, nil, true, 2
	}

	if *showVersion {
		fmt.Printf("csmt %s (commit %s)\n", version, commit)
		return cfg, nil, true, 0
	}

	return cfg, fs.Args(), false, 0
}

func newFlagSet(cfg *csmt.Config) *flagSet {
	fs := newCustomFlagSet("csmt")
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "data directory path")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "path bit-width")
	return fs
}
