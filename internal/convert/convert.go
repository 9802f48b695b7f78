// Package convert orchestrates one telemetry conversion run: open the
// capture, read the framing header, then stream packets through the decoder,
// the flattener and the formatter into the destination file and any optional
// sinks.
package convert

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/telemetry.report/internal/eds"
	"github.com/banshee-data/telemetry.report/internal/framing"
	"github.com/banshee-data/telemetry.report/internal/fsutil"
	"github.com/banshee-data/telemetry.report/internal/monitoring"
	"github.com/banshee-data/telemetry.report/internal/recorddb"
	"github.com/banshee-data/telemetry.report/internal/render"
)

// Options configures one conversion run.
type Options struct {
	// Mission selects an embedded dictionary; DictionaryFile, when set,
	// overrides it with an external dictionary JSON file.
	Mission        string
	DictionaryFile string

	// SourcePath is the framed capture file. DestPath is the CSV output;
	// empty means derive it from SourcePath (.bin -> .csv).
	SourcePath string
	DestPath   string

	// Screen echoes a hex dump and an aligned label/value block for each
	// packet to Console.
	Screen  bool
	Console io.Writer

	// Strict aborts the run on the first decode failure instead of skipping
	// the packet.
	Strict bool

	// Stats prints a per-column numeric summary to Console after the run.
	Stats bool

	// DBPath, when set, also writes every flattened record to a sqlite sink.
	DBPath string

	// FS defaults to the real filesystem; tests substitute a memory one.
	FS fsutil.FileSystem
}

// Result summarizes a completed run.
type Result struct {
	DestPath string
	Packets  int // packets decoded and written
	Skipped  int // packets dropped by the skip-and-continue policy
}

// DeriveDestPath returns the conventional output path: the source with its
// .bin extension replaced by .csv, or .csv appended when the source has a
// different extension.
func DeriveDestPath(source string) string {
	if strings.HasSuffix(source, ".bin") {
		return strings.TrimSuffix(source, ".bin") + ".csv"
	}
	return source + ".csv"
}

// Run executes one conversion. The mission dictionary is resolved before the
// source file is touched; every opened handle is released on every exit
// path, including mid-stream framing failures.
func Run(opts Options) (*Result, error) {
	fs := opts.FS
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	console := opts.Console
	if console == nil {
		console = io.Discard
	}

	dict, err := loadDictionary(fs, opts)
	if err != nil {
		return nil, err
	}

	dest := opts.DestPath
	if dest == "" {
		dest = DeriveDestPath(opts.SourcePath)
	}

	src, err := fs.Open(opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %v", opts.SourcePath, err)
	}
	defer src.Close()

	packetLength, err := framing.ReadHeader(src)
	if err != nil {
		return nil, err
	}
	stream, err := framing.NewStream(src, packetLength)
	if err != nil {
		return nil, err
	}

	out, err := fs.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("creating destination %s: %v", dest, err)
	}
	defer out.Close()

	var sink *recorddb.DB
	var run *recorddb.Run
	if opts.DBPath != "" {
		sink, err = recorddb.Open(opts.DBPath)
		if err != nil {
			return nil, err
		}
		defer sink.Close()
		if run, err = sink.StartRun(opts.SourcePath, dict.Mission); err != nil {
			return nil, err
		}
	}

	result := &Result{DestPath: dest}
	headerWritten := false
	stats := newColumnStats()

	for index := 0; ; index++ {
		packet, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		decoded, err := dict.Decode(packet)
		if err != nil {
			var de *eds.DecodeError
			if errors.As(err, &de) && !opts.Strict {
				monitoring.Logf("skipping packet %d: %v", index, err)
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("packet %d: %w", index, err)
		}

		fields := eds.Flatten(decoded.Object, decoded.Entry.Name)
		if !headerWritten {
			if _, err := io.WriteString(out, render.HeaderLine(fields)); err != nil {
				return nil, fmt.Errorf("writing header line: %v", err)
			}
			headerWritten = true
		}
		if _, err := io.WriteString(out, render.ValueLine(fields)); err != nil {
			return nil, fmt.Errorf("writing packet %d: %v", index, err)
		}

		if sink != nil {
			if err := sink.RecordPacket(run, index, decoded.TopicID, fields); err != nil {
				return nil, err
			}
		}
		if opts.Stats {
			stats.add(fields)
		}
		if opts.Screen {
			fmt.Fprintln(console, render.HexDump(packet, render.DefaultBytesPerLine))
			fmt.Fprintln(console, render.ScreenBlock(fields))
		}

		result.Packets++
	}

	if sink != nil {
		if err := sink.FinishRun(run, result.Packets, result.Skipped); err != nil {
			return nil, err
		}
	}
	if opts.Stats {
		io.WriteString(console, stats.summary())
	}

	return result, nil
}

func loadDictionary(fs fsutil.FileSystem, opts Options) (*eds.Dictionary, error) {
	if opts.DictionaryFile != "" {
		data, err := fs.ReadFile(opts.DictionaryFile)
		if err != nil {
			return nil, &eds.ConfigurationError{Mission: opts.Mission,
				Reason: fmt.Sprintf("reading dictionary file %s: %v", opts.DictionaryFile, err)}
		}
		return eds.ParseDictionary(opts.Mission, data)
	}
	return eds.LoadMission(opts.Mission)
}
