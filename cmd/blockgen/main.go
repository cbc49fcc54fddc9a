package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/blockgen/internal/rewrite"
	"github.com/toyz/blockgen/internal/utils"
)

func main() {
	// Define command-line flags
	var (
		writeFlag   = flag.Bool("w", false, "Rewrite source files in place instead of printing to stdout")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output")
		quietFlag   = flag.Bool("quiet", false, "Only show errors")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <patterns...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Blockgen Blocking Wrapper Generator\n")
		fmt.Fprintf(os.Stderr, "Expands #[block_on(\"...\")] attributes: every async fn in an annotated impl\n")
		fmt.Fprintf(os.Stderr, "block gains a synchronous <name>_blocking sibling that drives it to completion\n")
		fmt.Fprintf(os.Stderr, "on the selected backend (tokio or async-std).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  patterns    One or more files or glob patterns naming .rs sources\n")
		fmt.Fprintf(os.Stderr, "              Doublestar patterns like 'src/**/*.rs' are supported\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s src/client.rs          # Print the expanded file to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -w 'src/**/*.rs'       # Expand a whole tree in place\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -w -verbose src/lib.rs # Expand with detailed output\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one file or pattern is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// Create diagnostic system based on flags
	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	files, err := expandPatterns(args)
	if err != nil {
		diagnostics.Error("%v", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		diagnostics.Error("no input files matched %s", strings.Join(args, ", "))
		os.Exit(1)
	}

	expanded := 0
	for _, file := range files {
		diagnostics.Verbose("Expanding %s", file)

		output, changed, err := rewrite.ExpandFile(file)
		if err != nil {
			diagnostics.Error("%v", err)
			os.Exit(1)
		}

		if !changed {
			diagnostics.Verbose("No block_on attributes in %s", file)
			if !*writeFlag {
				fmt.Print(output)
			}
			continue
		}

		expanded++
		if *writeFlag {
			if err := os.WriteFile(file, []byte(output), 0644); err != nil {
				diagnostics.Error("failed to write %s: %v", file, err)
				os.Exit(1)
			}
			diagnostics.Progress("Expanded %s", file)
		} else {
			fmt.Print(output)
		}
	}

	if *writeFlag {
		diagnostics.Success("Expanded %d of %d files", expanded, len(files))
	}
}

// expandPatterns resolves plain paths and doublestar glob patterns into a
// flat file list, preserving argument order and dropping duplicates.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			add(match)
		}
	}
	return files, nil
}
