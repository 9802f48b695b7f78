// Package render turns flattened telemetry records into output text: CSV
// rows for file output, aligned label/value blocks and grouped hex listings
// for screen diagnostics.
package render

import (
	"fmt"
	"strings"

	"github.com/banshee-data/telemetry.report/internal/eds"
)

// DefaultBytesPerLine is the hex dump grouping used for screen diagnostics.
const DefaultBytesPerLine = 16

// screenPathWidth is the column the "=" separator is aligned to in screen
// output.
const screenPathWidth = 60

// CSVLine renders one output line: cells joined with ", " plus a newline.
// Both the label (header) row and the value rows use this shape.
func CSVLine(cells []string) string {
	return strings.Join(cells, ", ") + "\n"
}

// HeaderLine renders the CSV header row from a flattened record's paths.
func HeaderLine(fields []eds.Field) string {
	return CSVLine(eds.Paths(fields))
}

// ValueLine renders one CSV data row from a flattened record's values.
func ValueLine(fields []eds.Field) string {
	return CSVLine(eds.Values(fields))
}

// ScreenBlock renders a flattened record for human inspection, one
// "path = value" line per leaf with the separators aligned.
func ScreenBlock(fields []eds.Field) string {
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "%-*s = %s\n", screenPathWidth, f.Path, f.Value)
	}
	return sb.String()
}

// HexDump renders raw packet bytes as uppercase "0xHH" groups, space
// separated, with a line break after every bytesPerLine bytes. Stripping the
// "0x" prefixes and whitespace reconstructs the input exactly.
func HexDump(b []byte, bytesPerLine int) string {
	if bytesPerLine <= 0 {
		bytesPerLine = DefaultBytesPerLine
	}
	var sb strings.Builder
	sb.Grow(len(b) * 5)
	for i, v := range b {
		fmt.Fprintf(&sb, "0x%02X ", v)
		if (i+1)%bytesPerLine == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
