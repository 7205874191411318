// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command graph renders the JSON sessions written by cmd/bench into one
// PNG per GOMAXPROCS value: time-per-message against total concurrency,
// one series per engine.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// BenchmarkResult mirrors the schema cmd/bench writes.
type BenchmarkResult struct {
	Scenario            string  `json:"scenario"`
	Engine              string  `json:"engine"`
	Capacity            int     `json:"capacity,omitempty"`
	NumProducers        int     `json:"num_producers"`
	NumConsumers        int     `json:"num_consumers"`
	NumMessages         int64   `json:"num_messages"`
	NumMessagesConsumed int64   `json:"num_messages_consumed"`
	TestDuration        string  `json:"test_duration"`
	ActualElapsed       string  `json:"actual_elapsed"`
	Throughput          float64 `json:"throughput_msgs_sec"`
	Timestamp           int64   `json:"timestamp"`
	GoVersion           string  `json:"go_version"`
}

// SystemInfo mirrors the schema cmd/bench writes.
type SystemInfo struct {
	NumCPU            int     `json:"num_cpu"`
	TrueCPU           int     `json:"true_cpu,omitempty"`
	SimulatedCPUCount int     `json:"simulated_cpu_count,omitempty"`
	CPUModel          string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz       float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH            string  `json:"go_arch"`
	TotalMemory       uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport mirrors the schema cmd/bench writes.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// seriesStats holds the spread of ns/msg samples at one concurrency level:
// the average of the bottom 5%, the median, and the average of the top 5%.
type seriesStats struct {
	x      float64 // category index on the X axis, offset per series
	orig   float64 // original concurrency value
	low    float64
	median float64
	high   float64
}

// seriesPoints implements plotter.XYer and plotter.YErrorer so one value
// feeds the line, the scatter, and the error bars.
type seriesPoints []seriesStats

func (s seriesPoints) Len() int                { return len(s) }
func (s seriesPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s seriesPoints) YError(i int) (low, high float64) {
	return s[i].median - s[i].low, s[i].high - s[i].median
}

// categoryTicks places one labelled tick per concurrency level.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

// nsLogTicks relabels standard log-scale ticks as durations.
type nsLogTicks struct{}

func (nsLogTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.LogTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = formatNs(ticks[i].Value)
		}
	}
	return ticks
}

func main() {
	jsonFile := flag.String("jsonfile", "bench-results.json", "Path to the JSON results file written by cmd/bench")
	outputPrefix := flag.String("out", "bench_graph", "Output image filename prefix")
	flag.Parse()

	data, err := os.ReadFile(*jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON file: %v\n", err)
		os.Exit(1)
	}
	var sessions []FullReport
	if err = json.Unmarshal(data, &sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshalling JSON: %v\n", err)
		os.Exit(1)
	}

	// CPU count -> series name -> concurrency -> ns/msg samples.
	pointsByCPU := make(map[int]map[string]map[float64][]float64)
	for _, session := range sessions {
		cpus := session.SystemInfo.SimulatedCPUCount
		if cpus == 0 {
			cpus = session.SystemInfo.NumCPU
		}
		if _, ok := pointsByCPU[cpus]; !ok {
			pointsByCPU[cpus] = make(map[string]map[float64][]float64)
		}
		for _, b := range session.Benchmarks {
			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumMessagesConsumed == 0 {
				continue
			}
			x := float64(b.NumProducers + b.NumConsumers)
			nsPerMsg := float64(dur.Nanoseconds()) / float64(b.NumMessagesConsumed)

			series := seriesName(b)
			seriesMap := pointsByCPU[cpus]
			if _, ok := seriesMap[series]; !ok {
				seriesMap[series] = make(map[float64][]float64)
			}
			seriesMap[series][x] = append(seriesMap[series][x], nsPerMsg)
		}
	}

	for cpus, seriesMap := range pointsByCPU {
		filename := fmt.Sprintf("%s_%d.png", *outputPrefix, cpus)
		if err := renderPlot(cpus, seriesMap, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering plot for %d CPU(s): %v\n", cpus, err)
			continue
		}
		fmt.Printf("Graph for %d CPU(s) saved to %s\n", cpus, filename)
	}
}

// seriesName keys a plot series: the engine, plus the capacity for the
// bounded one so differently sized rings chart separately.
func seriesName(b BenchmarkResult) string {
	if b.Capacity > 0 {
		return fmt.Sprintf("%s/%d", b.Engine, b.Capacity)
	}
	return b.Engine
}

func renderPlot(cpus int, seriesMap map[string]map[float64][]float64, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Time per message vs. concurrency, %d CPU(s)", cpus)
	p.X.Label.Text = "Producers + Consumers"
	p.Y.Label.Text = "Time per message"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = nsLogTicks{}

	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = white

	p.Add(plotter.NewGrid())

	// Categorical X axis over the union of concurrency values.
	concSet := make(map[float64]struct{})
	for _, seriesData := range seriesMap {
		for conc := range seriesData {
			concSet[conc] = struct{}{}
		}
	}
	concValues := make([]float64, 0, len(concSet))
	for v := range concSet {
		concValues = append(concValues, v)
	}
	sort.Float64s(concValues)

	concIndex := make(map[float64]float64, len(concValues))
	positions := make([]float64, len(concValues))
	labels := make([]string, len(concValues))
	for i, v := range concValues {
		concIndex[v] = float64(i)
		positions[i] = float64(i)
		labels[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

	names := make([]string, 0, len(seriesMap))
	for name := range seriesMap {
		names = append(names, name)
	}
	sort.Strings(names)

	colors := plotutil.SoftColors
	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	// Nudge each series sideways so overlapping spreads stay readable.
	offsetRange := 0.4
	offsetStep := offsetRange / float64(len(names))
	startOffset := -offsetRange/2 + offsetStep/2

	for i, name := range names {
		stats := buildStats(seriesMap[name])
		if len(stats) == 0 {
			continue
		}
		for j := range stats {
			stats[j].x = concIndex[stats[j].orig] + startOffset + float64(i)*offsetStep
		}
		sort.Slice(stats, func(a, b int) bool { return stats[a].x < stats[b].x })
		sp := seriesPoints(stats)

		line, err := plotter.NewLine(sp)
		if err != nil {
			return err
		}
		line.Color = colors[i%len(colors)]

		points, err := plotter.NewScatter(sp)
		if err != nil {
			return err
		}
		points.GlyphStyle.Radius = vg.Points(5)
		points.Color = colors[i%len(colors)]
		points.Shape = shapes[i%len(shapes)]

		errBars, err := plotter.NewYErrorBars(sp)
		if err != nil {
			return err
		}
		errBars.Color = colors[i%len(colors)]

		p.Add(line, points, errBars)
		p.Legend.Add(name, line, points)
	}

	return p.Save(12*vg.Inch, 9*vg.Inch, filename)
}

// buildStats condenses the samples at each concurrency level into a
// bottom-5% average, median, and top-5% average.
func buildStats(concurrencyMap map[float64][]float64) []seriesStats {
	out := make([]seriesStats, 0, len(concurrencyMap))
	for x, vals := range concurrencyMap {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, seriesStats{
			orig:   x,
			low:    averageOfRange(vals, 0.0, 0.05),
			median: median(vals),
			high:   averageOfRange(vals, 0.95, 1.0),
		})
	}
	return out
}

// averageOfRange averages sortedVals over [startFrac, endFrac) of its
// length, falling back to the median when the slice is too small.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	startIndex := max(int(float64(n)*startFrac), 0)
	endIndex := min(int(float64(n)*endFrac), n)
	if startIndex >= endIndex {
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs renders a nanosecond count as ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
