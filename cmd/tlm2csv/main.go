// Command tlm2csv converts a framed binary telemetry capture into a CSV
// file: one header line of field paths, then one line per packet.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/telemetry.report/internal/convert"
	"github.com/banshee-data/telemetry.report/internal/version"
)

var (
	file        = flag.String("file", "", "telemetry capture file (required)")
	out         = flag.String("out", "", "output CSV path (default: source with .bin replaced by .csv)")
	screen      = flag.Bool("s", false, "also print hex and formatted dumps to the screen")
	mission     = flag.String("mission", "sample", "embedded mission dictionary to use")
	dict        = flag.String("dict", "", "external dictionary JSON file (overrides -mission)")
	dbPath      = flag.String("db", "", "also record flattened output into this sqlite database")
	stats       = flag.Bool("stats", false, "print a per-column numeric summary after converting")
	strict      = flag.Bool("strict", false, "abort on the first undecodable packet instead of skipping it")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("tlm2csv", version.String())
		return
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "tlm2csv: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	result, err := convert.Run(convert.Options{
		Mission:        *mission,
		DictionaryFile: *dict,
		SourcePath:     *file,
		DestPath:       *out,
		Screen:         *screen,
		Console:        os.Stdout,
		Strict:         *strict,
		Stats:          *stats,
		DBPath:         *dbPath,
	})
	if err != nil {
		log.Fatalf("conversion failed: %v", err)
	}

	log.Printf("converted %d packets (%d skipped) from %s to %s",
		result.Packets, result.Skipped, *file, result.DestPath)
}
