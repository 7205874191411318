// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command bench runs timed producer/consumer load against both queue
// engines and reports throughput, optionally appending JSON sessions that
// cmd/graph can render.
//
// Usage:
//
//	bench [-scenarios suite.yaml] [-iter 5] [-cpu 0] [-duration 0]
//	      [-json] [-jsonfile bench-results.json] [-progress]
//	bench -markdown-table [-jsonfile bench-results.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"code.hybscloud.com/mpmc/internal/testbench"
)

// BenchmarkResult holds the outcome of one scenario iteration.
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

// SystemInfo records the machine a session ran on.
type SystemInfo struct {
	NumCPU            int     `json:"num_cpu"`
	TrueCPU           int     `json:"true_cpu,omitempty"`
	SimulatedCPUCount int     `json:"simulated_cpu_count,omitempty"`
	CPUModel          string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz       float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH            string  `json:"go_arch"`
	TotalMemory       uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents one complete session at a fixed GOMAXPROCS.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

func main() {
	iterations := flag.Int("iter", 5, "Number of iterations per scenario")
	cpuFlag := flag.Int("cpu", 0, "If non-zero, test only that GOMAXPROCS value; if 0, sweep common values up to runtime.NumCPU()")
	durationFlag := flag.Duration("duration", 0, "Override every scenario's duration (0 keeps per-scenario values)")
	scenarioFile := flag.String("scenarios", "", "Path to a YAML scenario suite (empty runs the built-in suite)")
	jsonExport := flag.Bool("json", false, "Append results as JSON to the -jsonfile path")
	jsonFile := flag.String("jsonfile", "bench-results.json", "Path of the JSON results file")
	markdownTable := flag.Bool("markdown-table", false, "Print a markdown table from the JSON results file and exit")
	progressFlag := flag.Bool("progress", false, "Display a progress bar with ETA")
	flag.Parse()

	if *markdownTable {
		if err := outputMarkdownTable(*jsonFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	suite := testbench.DefaultSuite()
	if *scenarioFile != "" {
		loaded, err := testbench.LoadSuite(*scenarioFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		suite = loaded
	}

	trueCPUCount := runtime.NumCPU()
	var cpuSettings []int
	commonCPUs := []int{1, 2, 4, 8, 16, 32, 64, 128}
	if *cpuFlag > 0 {
		desired := min(*cpuFlag, trueCPUCount)
		cpuSettings = []int{desired}
	} else {
		for _, v := range commonCPUs {
			if v <= trueCPUCount {
				cpuSettings = append(cpuSettings, v)
			}
		}
	}

	var bar *progressbar.ProgressBar
	if *progressFlag {
		total := int64(len(cpuSettings) * len(suite.Scenarios) * (*iterations))
		bar = progressbar.NewOptions64(total,
			progressbar.OptionSetDescription("bench"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	var allSessions []FullReport
	for _, cpus := range cpuSettings {
		runtime.GOMAXPROCS(cpus)
		sysInfo := gatherSystemInfo()
		sysInfo.NumCPU = cpus
		sysInfo.TrueCPU = trueCPUCount
		sysInfo.SimulatedCPUCount = cpus

		fmt.Printf("\n=============================\n")
		fmt.Printf("GOMAXPROCS = %d\n", cpus)
		fmt.Printf("=============================\n")

		var results []BenchmarkResult
		for _, sc := range suite.Scenarios {
			dur := sc.Duration.Std()
			if *durationFlag > 0 {
				dur = *durationFlag
			}
			fmt.Printf("  [%s: engine=%s producers=%d consumers=%d]\n",
				sc.Name, sc.Engine, sc.Producers, sc.Consumers)

			for iteration := 1; iteration <= *iterations; iteration++ {
				runtime.GC()
				q, err := testbench.NewQueue[uint64](sc)
				if err != nil {
					fmt.Fprintln(os.Stderr, "Error:", err)
					os.Exit(1)
				}

				produced, consumed, actualTime := testbench.RunTimedTest(
					q, sc.Config(), dur, testbench.Values(),
				)
				throughput := float64(consumed) / actualTime.Seconds()

				fmt.Printf("    iteration %d/%d => produced=%d, consumed=%d, throughput=%.0f msg/s, took=%v\n",
					iteration, *iterations, produced, consumed, throughput, actualTime)
				if bar != nil {
					_ = bar.Add(1)
				}

				results = append(results, BenchmarkResult{
					Scenario:            sc.Name,
					Engine:              sc.Engine,
					Capacity:            sc.Capacity,
					NumProducers:        sc.Producers,
					NumConsumers:        sc.Consumers,
					NumMessages:         produced,
					NumMessagesConsumed: consumed,
					TestDuration:        dur.String(),
					ActualElapsed:       actualTime.String(),
					Throughput:          throughput,
					Timestamp:           time.Now().Unix(),
					GoVersion:           runtime.Version(),
				})
			}
		}

		allSessions = append(allSessions, FullReport{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  sysInfo,
			Benchmarks:  results,
		})
	}

	if bar != nil {
		_ = bar.Finish()
	}

	if *jsonExport {
		if err := appendSessions(*jsonFile, allSessions); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote results to %s\n", *jsonFile)
	}
}

// appendSessions merges new sessions into the JSON results file so repeated
// runs accumulate instead of overwriting.
func appendSessions(filename string, sessions []FullReport) error {
	var previous []FullReport
	if data, err := os.ReadFile(filename); err == nil && len(data) > 0 {
		if err = json.Unmarshal(data, &previous); err != nil {
			return fmt.Errorf("parse existing %s: %w", filename, err)
		}
	}
	updated := append(previous, sessions...)
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// outputMarkdownTable prints a throughput summary of the last session.
func outputMarkdownTable(jsonFile string) error {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return err
	}
	var sessions []FullReport
	if err = json.Unmarshal(data, &sessions); err != nil {
		return fmt.Errorf("parse %s: %w", jsonFile, err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions found in %s", jsonFile)
	}
	last := sessions[len(sessions)-1]

	type tableRow struct {
		scenario   string
		engine     string
		producers  int
		consumers  int
		throughput float64
		samples    int
	}
	byScenario := make(map[string]*tableRow)
	var order []string
	for _, b := range last.Benchmarks {
		row, ok := byScenario[b.Scenario]
		if !ok {
			row = &tableRow{scenario: b.Scenario, engine: b.Engine, producers: b.NumProducers, consumers: b.NumConsumers}
			byScenario[b.Scenario] = row
			order = append(order, b.Scenario)
		}
		row.throughput += b.Throughput
		row.samples++
	}
	rows := make([]tableRow, 0, len(order))
	for _, name := range order {
		row := *byScenario[name]
		row.throughput /= float64(row.samples)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].throughput > rows[j].throughput })

	fmt.Println("## Last Session Benchmark Summary")
	fmt.Println()
	fmt.Println("| Scenario             | Engine    | Producers | Consumers | Throughput (msgs/sec) |")
	fmt.Println("|----------------------|-----------|-----------|-----------|-----------------------|")
	for _, r := range rows {
		fmt.Printf("| %-20s | %-9s | %9d | %9d | %21.0f |\n",
			r.scenario, r.engine, r.producers, r.consumers, r.throughput)
	}
	return nil
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU: runtime.NumCPU(),
		GOARCH: runtime.GOARCH,
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}
