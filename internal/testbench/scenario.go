// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testbench

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/mpmc"
)

// Engine names accepted in scenario files.
const (
	EngineBounded   = "bounded"
	EngineUnbounded = "unbounded"
)

// Duration wraps time.Duration so scenario files can spell durations the
// usual Go way ("250ms", "2s") instead of raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("testbench: bad duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Scenario describes one timed run: which engine, how big, and under how
// much concurrency. Capacity is ignored for the unbounded engine.
type Scenario struct {
	Name      string   `yaml:"name"`
	Engine    string   `yaml:"engine"`
	Capacity  int      `yaml:"capacity"`
	Producers int      `yaml:"producers"`
	Consumers int      `yaml:"consumers"`
	Duration  Duration `yaml:"duration"`
}

// Config returns the concurrency shape of the scenario.
func (sc Scenario) Config() Config {
	return Config{NumProducers: sc.Producers, NumConsumers: sc.Consumers}
}

func (sc Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("testbench: scenario without a name")
	}
	switch sc.Engine {
	case EngineBounded:
		if sc.Capacity < 1 {
			return fmt.Errorf("testbench: scenario %q: bounded engine needs capacity >= 1, got %d", sc.Name, sc.Capacity)
		}
	case EngineUnbounded:
	default:
		return fmt.Errorf("testbench: scenario %q: unknown engine %q", sc.Name, sc.Engine)
	}
	if sc.Producers < 1 {
		return fmt.Errorf("testbench: scenario %q: needs at least one producer, got %d", sc.Name, sc.Producers)
	}
	if sc.Consumers < 1 {
		return fmt.Errorf("testbench: scenario %q: needs at least one consumer, got %d", sc.Name, sc.Consumers)
	}
	if sc.Duration <= 0 {
		return fmt.Errorf("testbench: scenario %q: duration must be positive", sc.Name)
	}
	return nil
}

// Suite is a list of scenarios, typically loaded from a YAML file.
type Suite struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Validate checks every scenario and rejects duplicate names.
func (s *Suite) Validate() error {
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("testbench: suite has no scenarios")
	}
	seen := make(map[string]struct{}, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		if err := sc.validate(); err != nil {
			return err
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("testbench: duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = struct{}{}
	}
	return nil
}

// LoadSuite reads and validates a scenario file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err = yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testbench: parse %s: %w", path, err)
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultSuite covers both engines across a few concurrency shapes. It is
// what cmd/bench runs when no scenario file is given.
func DefaultSuite() *Suite {
	return &Suite{Scenarios: []Scenario{
		{Name: "bounded-1p1c", Engine: EngineBounded, Capacity: 1024, Producers: 1, Consumers: 1, Duration: Duration(time.Second)},
		{Name: "bounded-4p4c", Engine: EngineBounded, Capacity: 1024, Producers: 4, Consumers: 4, Duration: Duration(time.Second)},
		{Name: "bounded-8p2c", Engine: EngineBounded, Capacity: 1024, Producers: 8, Consumers: 2, Duration: Duration(time.Second)},
		{Name: "bounded-small-4p4c", Engine: EngineBounded, Capacity: 16, Producers: 4, Consumers: 4, Duration: Duration(time.Second)},
		{Name: "unbounded-1p1c", Engine: EngineUnbounded, Producers: 1, Consumers: 1, Duration: Duration(time.Second)},
		{Name: "unbounded-4p4c", Engine: EngineUnbounded, Producers: 4, Consumers: 4, Duration: Duration(time.Second)},
		{Name: "unbounded-8p2c", Engine: EngineUnbounded, Producers: 8, Consumers: 2, Duration: Duration(time.Second)},
	}}
}

// NewQueue builds the queue a scenario asks for.
func NewQueue[T any](sc Scenario) (mpmc.Queue[T], error) {
	switch sc.Engine {
	case EngineBounded:
		return mpmc.NewBounded[T](sc.Capacity)
	case EngineUnbounded:
		return mpmc.NewUnbounded[T](), nil
	default:
		return nil, fmt.Errorf("testbench: unknown engine %q", sc.Engine)
	}
}
