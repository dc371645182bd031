package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verdantloop/garden/internal/entity"
)

// Scenario is a scripted lifecycle run: a sequence of commands, clock
// advances, and sweeps executed against a fresh database with pinned
// randomness. The snapshot of events and final garden state is compared
// against a golden file.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// User is the acting user id.
	User string `yaml:"user"`

	// Random scripts the values drawn from the random source, in draw
	// order. When it runs out, further draws return zero: the "same tier"
	// inherit branch and the minimum spawn delay.
	Random []float64 `yaml:"random,omitempty"`

	// Steps is the script to execute in order.
	Steps []Step `yaml:"steps"`
}

// Step is one scripted action. Exactly one of Advance or Command is set.
type Step struct {
	// Advance moves the clock forward by a duration string ("6s", "21m")
	// without running anything.
	Advance string `yaml:"advance,omitempty"`

	// Command names the action: give, place_bouquet, place_flower, feed,
	// collect_butterfly, collect_caterpillar, collect_fish, collect_sun,
	// spawn_sun, or sweep.
	Command string `yaml:"command,omitempty"`

	// Field is the target field index for field commands.
	Field int `yaml:"field,omitempty"`

	// Species is the species id for place, feed, and give.
	Species string `yaml:"species,omitempty"`

	// Kind is the item kind for give and the source kind for feed.
	// Defaults to caterpillar for feed.
	Kind string `yaml:"kind,omitempty"`

	// Qty is the quantity for give. Defaults to 1.
	Qty int `yaml:"qty,omitempty"`

	// Amount is the sun amount for spawn_sun. Defaults to 1.
	Amount int `yaml:"amount,omitempty"`
}

// Step command names.
const (
	CmdGive               = "give"
	CmdPlaceBouquet       = "place_bouquet"
	CmdPlaceFlower        = "place_flower"
	CmdFeed               = "feed"
	CmdCollectButterfly   = "collect_butterfly"
	CmdCollectCaterpillar = "collect_caterpillar"
	CmdCollectFish        = "collect_fish"
	CmdCollectSun         = "collect_sun"
	CmdSpawnSun           = "spawn_sun"
	CmdSweep              = "sweep"
)

var knownCommands = map[string]bool{
	CmdGive:               true,
	CmdPlaceBouquet:       true,
	CmdPlaceFlower:        true,
	CmdFeed:               true,
	CmdCollectButterfly:   true,
	CmdCollectCaterpillar: true,
	CmdCollectFish:        true,
	CmdCollectSun:         true,
	CmdSpawnSun:           true,
	CmdSweep:              true,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently skipping a step.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks required fields and step shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.User == "" {
		return fmt.Errorf("user is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch {
		case step.Advance != "" && step.Command != "":
			return fmt.Errorf("steps[%d]: advance and command are mutually exclusive", i)
		case step.Advance != "":
			if _, err := time.ParseDuration(step.Advance); err != nil {
				return fmt.Errorf("steps[%d]: bad advance duration: %w", i, err)
			}
		case step.Command != "":
			if !knownCommands[step.Command] {
				return fmt.Errorf("steps[%d]: unknown command %q", i, step.Command)
			}
			if step.Command == CmdFeed && step.Kind != "" {
				kind := entity.Kind(step.Kind)
				if kind != entity.KindCaterpillar && kind != entity.KindButterfly {
					return fmt.Errorf("steps[%d]: feed kind must be caterpillar or butterfly", i)
				}
			}
		default:
			return fmt.Errorf("steps[%d]: needs either advance or command", i)
		}
	}

	return nil
}
