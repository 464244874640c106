package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/gofrs/flock"

	"github.com/yu-lang/yuc/analysis"
	"github.com/yu-lang/yuc/diag"
	"github.com/yu-lang/yuc/lexer"
	"github.com/yu-lang/yuc/parser"
)

// CLI is the kong command surface. yuc is the front-end driver: it
// checks source files and can self-test the IR pipeline.
type CLI struct {
	Files []string `arg:"" optional:"" type:"existingfile" help:"Yu source files to check."`

	Demo    bool   `help:"Build the sample IR functions, validate them and print the dump."`
	DumpIR  bool   `name:"dump-ir" help:"Write the demo IR dump into the cache directory."`
	NoColor bool   `help:"Disable color in diagnostics."`
	Jobs    int    `help:"Maximum concurrent file parsers (0 = one per file)."`
	Config  string `help:"Path to a yuc.yaml config file." type:"path"`

	Version kong.VersionFlag `help:"Print version information and exit."`
}

type fileResult struct {
	path        string
	diagnostics []diag.Diagnostic
	readErr     error
	failed      bool
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("yuc"),
		kong.Description("Compiler front-end for the Yu language."),
		kong.Vars{"version": versionString()},
	)

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		kctx.Fatalf("config: %v", err)
	}
	if cli.NoColor {
		cfg.Color = false
	}
	if cli.Jobs > 0 {
		cfg.Jobs = cli.Jobs
	}
	if cli.DumpIR {
		cfg.DumpIR = true
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}

	ok := true
	if cli.Demo || cfg.DumpIR {
		if !runDemo(cfg) {
			ok = false
		}
	}

	if len(cli.Files) > 0 {
		if !checkFiles(cli.Files, cfg) {
			ok = false
		}
	}

	if !ok {
		os.Exit(1)
	}
}

// checkFiles parses each file on its own goroutine and reports the
// diagnostics in input order.
func checkFiles(files []string, cfg Config) bool {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = len(files)
	}

	results := make([]fileResult, len(files))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = checkFile(path)
		}(i, path)
	}
	wg.Wait()

	reporter := diag.NewReporter(os.Stderr, cfg.Color)
	ok := true
	for _, res := range results {
		if res.readErr != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", res.path, res.readErr)
			ok = false
			continue
		}
		reporter.ReportAll(res.diagnostics)
		if res.failed {
			ok = false
		}
	}
	return ok
}

// checkFile tokenizes and parses one file. Each invocation owns a
// distinct lexer and parser; no state is shared across files.
func checkFile(path string) fileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, readErr: err}
	}

	lex, err := lexer.New(string(source))
	if err != nil {
		return fileResult{path: path, readErr: err}
	}
	tokens := lex.Tokenize()

	p := parser.New(tokens, string(source), path, lex)
	_, parseErr := p.ParseProgram()

	diags := make([]diag.Diagnostic, 0, len(p.Warnings())+len(p.Errors()))
	diags = append(diags, p.Warnings()...)
	diags = append(diags, p.Errors()...)
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})

	return fileResult{path: path, diagnostics: diags, failed: parseErr != nil}
}

// runDemo builds the sample functions, runs all three validators and
// prints the dump. With dump_ir set, the dump is also written to the
// cache directory; the directory is shared between yuc processes, so
// writes hold its lock file.
func runDemo(cfg Config) bool {
	sealed := buildDemoIR()

	a := analysis.New(sealed)
	ok := a.Validate()

	dump := sealed.Dump()
	fmt.Print(dump)

	if cfg.DumpIR {
		if err := writeDump(cfg.CacheDir, "demo.ir", dump); err != nil {
			fmt.Fprintf(os.Stderr, "error writing IR dump: %v\n", err)
			return false
		}
	}

	return ok
}

func writeDump(cacheDir, name, dump string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cacheDir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer lock.Unlock()

	return os.WriteFile(filepath.Join(cacheDir, name), []byte(dump), 0644)
}
