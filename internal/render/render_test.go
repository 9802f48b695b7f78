package render

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/banshee-data/telemetry.report/internal/eds"
)

func TestCSVLine(t *testing.T) {
	got := CSVLine([]string{"1", "2", "3"})
	if got != "1, 2, 3\n" {
		t.Errorf("CSVLine = %q, want %q", got, "1, 2, 3\n")
	}
}

func TestCSVLineSingleCell(t *testing.T) {
	if got := CSVLine([]string{"only"}); got != "only\n" {
		t.Errorf("CSVLine = %q, want %q", got, "only\n")
	}
}

func TestHeaderAndValueLinesAlign(t *testing.T) {
	fields := []eds.Field{
		{Path: "HK.a", Value: "1"},
		{Path: "HK.b", Value: "2"},
	}
	if got := HeaderLine(fields); got != "HK.a, HK.b\n" {
		t.Errorf("HeaderLine = %q", got)
	}
	if got := ValueLine(fields); got != "1, 2\n" {
		t.Errorf("ValueLine = %q", got)
	}
}

func TestScreenBlockAlignment(t *testing.T) {
	fields := []eds.Field{
		{Path: "HK.Counter", Value: "9"},
		{Path: "HK.State", Value: "NOMINAL"},
	}
	got := ScreenBlock(fields)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	for _, line := range lines {
		idx := strings.Index(line, " = ")
		if idx != 60 {
			t.Errorf("separator at column %d, want 60: %q", idx, line)
		}
	}
	if !strings.HasSuffix(lines[1], "= NOMINAL") {
		t.Errorf("value missing from line: %q", lines[1])
	}
}

func TestHexDumpGrouping(t *testing.T) {
	b := make([]byte, 20)
	for i := range b {
		b[i] = byte(i)
	}
	got := HexDump(b, 16)
	lines := strings.Split(strings.TrimRight(got, " \n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for 20 bytes at 16/line, got %d", len(lines))
	}
	if !strings.HasPrefix(got, "0x00 0x01 ") {
		t.Errorf("unexpected prefix: %q", got[:12])
	}
	if !strings.Contains(lines[1], "0x13") {
		t.Errorf("second line should carry the trailing bytes: %q", lines[1])
	}
}

// Stripping the 0x prefixes and whitespace from a dump must reconstruct the
// original bytes exactly.
func TestHexDumpRoundTrip(t *testing.T) {
	b := []byte{0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x7F, 0x80, 0xFF, 0x10}
	dump := HexDump(b, 4)

	cleaned := strings.NewReplacer("0x", "", " ", "", "\n", "").Replace(dump)
	back, err := hex.DecodeString(cleaned)
	if err != nil {
		t.Fatalf("decoding dump failed: %v", err)
	}
	if string(back) != string(b) {
		t.Errorf("round trip mismatch: got %x, want %x", back, b)
	}
}

func TestHexDumpDefaultsBytesPerLine(t *testing.T) {
	b := make([]byte, 16)
	if got := HexDump(b, 0); strings.Count(got, "\n") != 1 {
		t.Errorf("expected one line break for 16 bytes with default grouping, got %q", got)
	}
}
