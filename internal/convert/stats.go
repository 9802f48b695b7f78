package convert

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/telemetry.report/internal/eds"
)

// columnStats accumulates the numeric leaves of every converted packet,
// keyed by field path in first-seen order. Non-numeric columns (strings)
// are left out of the summary.
type columnStats struct {
	order   []string
	samples map[string][]float64
}

func newColumnStats() *columnStats {
	return &columnStats{samples: make(map[string][]float64)}
}

func (c *columnStats) add(fields []eds.Field) {
	for _, f := range fields {
		if !f.Numeric {
			continue
		}
		if _, seen := c.samples[f.Path]; !seen {
			c.order = append(c.order, f.Path)
		}
		c.samples[f.Path] = append(c.samples[f.Path], f.Num)
	}
}

// summary renders one line per numeric column: count, min, max, mean and
// standard deviation.
func (c *columnStats) summary() string {
	if len(c.order) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("column statistics:\n")
	for _, path := range c.order {
		xs := c.samples[path]
		fmt.Fprintf(&sb, "%-60s n=%d min=%g max=%g mean=%g stddev=%g\n",
			path, len(xs), floats.Min(xs), floats.Max(xs), stat.Mean(xs, nil), stat.StdDev(xs, nil))
	}
	return sb.String()
}
