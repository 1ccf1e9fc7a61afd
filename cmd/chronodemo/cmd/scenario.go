package cmd

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tempolab/chrono/anim"
)

// A Scenario is a YAML-described animation run: a set of named properties
// and the animations applied to them, sampled in fixed ticks.
type Scenario struct {
	Name  string  `yaml:"name"`
	Tick  float64 `yaml:"tick"`
	Ticks int     `yaml:"ticks"`

	Properties []PropertySpec `yaml:"properties"`
	Steps      []StepSpec     `yaml:"steps"`
}

// A PropertySpec declares one animated property and its resting value.
type PropertySpec struct {
	Name    string    `yaml:"name"`
	Default []float64 `yaml:"default"`
}

// A StepSpec animates one property from a start value (the property's
// current value when omitted) to an end value.
type StepSpec struct {
	Property string    `yaml:"property"`
	Start    []float64 `yaml:"start"`
	End      []float64 `yaml:"end"`
	Duration float64   `yaml:"duration"`
	Delay    float64   `yaml:"delay"`
	Easing   string    `yaml:"easing"`
	Clamp    *bool     `yaml:"clamp"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	s := &Scenario{}
	err = yaml.Unmarshal(data, s)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	err = s.validate()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scenario) validate() error {
	if s.Tick <= 0 {
		return fmt.Errorf("scenario %s: tick must be positive", s.Name)
	}
	if s.Ticks <= 0 {
		return fmt.Errorf("scenario %s: ticks must be positive", s.Name)
	}
	if len(s.Properties) == 0 {
		return fmt.Errorf("scenario %s: no properties declared", s.Name)
	}

	declared := make(map[string]bool)
	for _, p := range s.Properties {
		if len(p.Default) == 0 {
			return fmt.Errorf("property %s: no default value", p.Name)
		}
		declared[p.Name] = true
	}

	for _, step := range s.Steps {
		if !declared[step.Property] {
			return fmt.Errorf("step animates undeclared property %s",
				step.Property)
		}
		if len(step.End) == 0 {
			return fmt.Errorf("step on %s: no end value", step.Property)
		}
		if step.Easing != "" {
			if _, ok := easings[step.Easing]; !ok {
				return fmt.Errorf("step on %s: unknown easing %s",
					step.Property, step.Easing)
			}
		}
	}

	return nil
}

// easings names the easing functions a scenario can refer to.
var easings = map[string]anim.Easing{
	"linear":       nil,
	"quad-in":      func(x float64) float64 { return x * x },
	"quad-out":     func(x float64) float64 { return 1 - (1-x)*(1-x) },
	"quad-in-out":  inOut(func(x float64) float64 { return x * x }),
	"cubic-in":     func(x float64) float64 { return x * x * x },
	"cubic-out":    func(x float64) float64 { return 1 + (x-1)*(x-1)*(x-1) },
	"cubic-in-out": inOut(func(x float64) float64 { return x * x * x }),
	"sine-in-out":  func(x float64) float64 { return (1 - math.Cos(math.Pi*x)) / 2 },
}

// inOut mirrors an ease-in function around the midpoint.
func inOut(in anim.Easing) anim.Easing {
	return func(x float64) float64 {
		if x < 0.5 {
			return in(2*x) / 2
		}
		return 1 - in(2*(1-x))/2
	}
}
