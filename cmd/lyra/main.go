package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/lyralang/lyra/internal/config"
	"github.com/lyralang/lyra/internal/diagnostics"
	"github.com/lyralang/lyra/internal/pipeline"
)

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s check <file|dir> [more...]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s check -    (read source from stdin)\n", os.Args[0])
}

// collectSources expands directory arguments into the source files they
// contain. Plain file arguments pass through unchanged.
func collectSources(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isSourceFile(entry.Name()) {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return files, nil
}

// checkFile runs the front end over one file and prints its diagnostics.
// It returns the number of errors found.
func checkFile(ctx context.Context, formatter *diagnostics.Formatter, path string) (int, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	cfg, err := config.LoadForFile(path)
	if err != nil {
		return 0, err
	}

	pctx := pipeline.Check(ctx, cfg, path, string(source))
	if pctx.Err != nil {
		return 0, pctx.Err
	}
	formatter.FormatAll(pctx.Diagnostics)
	return diagnostics.CountErrors(pctx.Diagnostics), nil
}

func checkStdin(ctx context.Context, formatter *diagnostics.Formatter) (int, error) {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return 0, err
	}
	pctx := pipeline.Check(ctx, config.Default(), "<stdin>", string(source))
	if pctx.Err != nil {
		return 0, pctx.Err
	}
	formatter.FormatAll(pctx.Diagnostics)
	return diagnostics.CountErrors(pctx.Diagnostics), nil
}

func runCheck(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	formatter := diagnostics.NewFormatter()
	totalErrors := 0

	if len(args) == 1 && args[0] == "-" {
		n, err := checkStdin(ctx, formatter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
		totalErrors += n
	} else {
		files, err := collectSources(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "No source files found")
			return 1
		}
		for _, file := range files {
			n, err := checkFile(ctx, formatter, file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				return 1
			}
			totalErrors += n
		}
	}

	if totalErrors > 0 {
		fmt.Fprintf(os.Stderr, "%d error(s)\n", totalErrors)
		return 1
	}
	return 0
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "help", "-help", "--help":
		usage()
	default:
		// Bare file arguments are treated as an implicit check.
		if isSourceFile(os.Args[1]) || os.Args[1] == "-" {
			os.Exit(runCheck(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}
