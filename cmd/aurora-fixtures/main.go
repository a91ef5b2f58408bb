// Command aurorafixtures runs the script fixtures under testdata/scripts
// and reports pass/fail against their golden .out files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/auroralang/aurora/testrunner"
)

func main() {
	scriptsDir := flag.String("dir", "testdata/scripts", "path to the fixture scripts directory")
	filter := flag.String("filter", "", "filter fixtures by path substring")
	limit := flag.Int("limit", 0, "maximum number of fixtures to run (0 = all)")
	verbose := flag.Bool("v", false, "verbose output (print each fixture result as it runs)")
	flag.Parse()

	if _, err := os.Stat(*scriptsDir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "fixtures directory not found at %s\n", *scriptsDir)
		os.Exit(1)
	}

	cfg := testrunner.Config{
		ScriptsDir: *scriptsDir,
		Filter:     *filter,
		Limit:      *limit,
		Verbose:    *verbose,
	}

	results, summary := testrunner.Run(cfg)

	if !*verbose {
		for _, r := range results {
			msg := ""
			if r.Message != "" {
				msg = " " + r.Message
			}
			fmt.Printf("%s %s%s\n", r.Result, r.Path, msg)
		}
	}

	fmt.Println()
	fmt.Println("=== Fixture Summary ===")
	fmt.Printf("Total:   %d\n", summary.Total)
	fmt.Printf("Passed:  %d\n", summary.Passed)
	fmt.Printf("Failed:  %d\n", summary.Failed)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	fmt.Printf("Errors:  %d\n", summary.Errors)
	if summary.Total > 0 {
		fmt.Printf("Elapsed: %s\n", summary.Elapsed)
	}

	if summary.Failed > 0 || summary.Errors > 0 {
		os.Exit(1)
	}
}
