package core

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/ragboard/core/parse"
	"github.com/huangsam/ragboard/schema"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Periods []seedPeriod `yaml:"periods"`
}

type seedPeriod struct {
	Year    string       `yaml:"year"`
	PI      string       `yaml:"pi"`
	Targets []seedTarget `yaml:"targets"`
}

type seedTarget struct {
	Target string         `yaml:"target"`
	Totals map[string]int `yaml:"totals"`
}

// DefaultSeed returns the built-in baseline store.
func DefaultSeed() (*PeriodStore, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile reads a baseline store from a YAML file.
func LoadSeedFile(path string) (*PeriodStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML baseline. Status labels go through the normalizer,
// so "on track" and "On track" land on the same kind.
func ParseSeed(data []byte) (*PeriodStore, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	periods := make(map[schema.PeriodKey][]schema.TargetAggregate, len(file.Periods))
	for i, p := range file.Periods {
		key := schema.NewPeriodKey(p.Year, p.PI)
		if key.Year == "" || key.PICycle == "" {
			return nil, fmt.Errorf("invalid seed: period %d needs both year and pi", i+1)
		}
		if _, dup := periods[key]; dup {
			return nil, fmt.Errorf("invalid seed: period %s listed twice", key)
		}

		targets := make([]schema.TargetAggregate, 0, len(p.Targets))
		for _, t := range p.Targets {
			name := strings.TrimSpace(t.Target)
			if name == "" {
				return nil, fmt.Errorf("invalid seed: period %s has a target without a name", key)
			}
			totals := schema.NewTotals()
			for label, n := range t.Totals {
				if n < 0 {
					return nil, fmt.Errorf("invalid seed: %s / %s has a negative %q count", key, name, label)
				}
				totals[parse.Normalize(label)] += n
			}
			targets = append(targets, schema.TargetAggregate{Target: name, Totals: totals})
		}
		periods[key] = targets
	}
	return NewPeriodStoreFrom(periods), nil
}

// BuildSeed picks the baseline store for a run: none, a custom file, or the built-in one.
func BuildSeed(noSeed bool, seedFile string) (*PeriodStore, error) {
	switch {
	case noSeed:
		return NewPeriodStore(), nil
	case seedFile != "":
		return LoadSeedFile(seedFile)
	default:
		return DefaultSeed()
	}
}
