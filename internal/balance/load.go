package balance

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/verdantloop/garden/internal/rarity"
)

//go:embed schema.cue
var schemaCUE string

// rawConfig mirrors the CUE shape for decoding.
type rawConfig struct {
	FlowerDwellSeconds       []float64 `json:"flower_dwell_seconds"`
	ButterflyLifespanSeconds float64   `json:"butterfly_lifespan_seconds"`
	BouquetLifetimeMinutes   float64   `json:"bouquet_lifetime_minutes"`
	SpawnWindowMinSeconds    float64   `json:"spawn_window_min_seconds"`
	SpawnWindowMaxSeconds    float64   `json:"spawn_window_max_seconds"`
	SpawnSlots               int       `json:"spawn_slots"`
	FeedingCycle             int       `json:"feeding_cycle"`
	SunLifetimeSeconds       float64   `json:"sun_lifetime_seconds"`
	SeedReward               []int     `json:"seed_reward"`
	InheritSameChance        float64   `json:"inherit_same_chance"`
	InheritLowerChance       float64   `json:"inherit_lower_chance"`
}

// Load reads tuning overrides from a directory of CUE files, unifies them
// with the embedded schema, and returns the resulting Config.
//
// An empty dir argument returns the compiled defaults. Any schema
// violation rejects the whole directory; the defaults are never partially
// overridden by an invalid file set.
func Load(dir string) (Config, error) {
	if dir == "" {
		return Default(), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return Config{}, fmt.Errorf("balance dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return Config{}, fmt.Errorf("balance dir %s: not a directory", dir)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile embedded balance schema: %w", err)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return Config{}, fmt.Errorf("balance dir %s: no CUE instances", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return Config{}, fmt.Errorf("load balance files: %w", inst.Err)
	}

	overrides := ctx.BuildInstance(inst)
	if err := overrides.Err(); err != nil {
		return Config{}, fmt.Errorf("build balance files: %w", err)
	}

	unified := schema.Unify(overrides)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("validate balance config: %w", err)
	}

	var raw rawConfig
	if err := unified.LookupPath(cue.ParsePath("balance")).Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("decode balance config: %w", err)
	}

	cfg, err := raw.toConfig()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("balance config: %w", err)
	}

	return cfg, nil
}

// toConfig converts decoded CUE values into typed durations.
func (r rawConfig) toConfig() (Config, error) {
	if len(r.FlowerDwellSeconds) != rarity.TierCount {
		return Config{}, fmt.Errorf("flower_dwell_seconds needs %d entries, got %d",
			rarity.TierCount, len(r.FlowerDwellSeconds))
	}
	if len(r.SeedReward) != rarity.TierCount {
		return Config{}, fmt.Errorf("seed_reward needs %d entries, got %d",
			rarity.TierCount, len(r.SeedReward))
	}

	cfg := Config{
		ButterflyLifespan:  seconds(r.ButterflyLifespanSeconds),
		BouquetLifetime:    time.Duration(r.BouquetLifetimeMinutes * float64(time.Minute)),
		SpawnWindowMin:     seconds(r.SpawnWindowMinSeconds),
		SpawnWindowMax:     seconds(r.SpawnWindowMaxSeconds),
		SpawnSlots:         r.SpawnSlots,
		FeedingCycle:       r.FeedingCycle,
		SunLifetime:        seconds(r.SunLifetimeSeconds),
		InheritSameChance:  r.InheritSameChance,
		InheritLowerChance: r.InheritLowerChance,
	}
	for i, s := range r.FlowerDwellSeconds {
		cfg.FlowerDwell[i] = seconds(s)
	}
	copy(cfg.SeedReward[:], r.SeedReward)

	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FindCUEFiles walks the directory and returns all .cue file paths.
// Used by callers that want to report what was loaded.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
