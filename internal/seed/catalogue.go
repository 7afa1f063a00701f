package seed

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// #region catalogue

// Catalogue holds the seed set. Swap installs a complete new set in one step.
type Catalogue struct {
	seeds atomic.Pointer[[]Seed]
}

// NewCatalogue copies seeds into a new catalogue.
func NewCatalogue(seeds []Seed) *Catalogue {
	c := &Catalogue{}
	c.Swap(seeds)
	return c
}

// Snapshot returns an independent copy of the current seeds in catalogue order.
func (c *Catalogue) Snapshot() []Seed {
	cur := *c.seeds.Load()
	out := make([]Seed, len(cur))
	copy(out, cur)
	return out
}

// Swap atomically replaces the catalogue.
func (c *Catalogue) Swap(seeds []Seed) {
	cp := make([]Seed, len(seeds))
	copy(cp, seeds)
	c.seeds.Store(&cp)
}

// Len returns the number of seeds in the current version.
func (c *Catalogue) Len() int {
	return len(*c.seeds.Load())
}

// #endregion

// #region load

// LoadYAML parses an authored seed file. Seeds without an explicit
// is_active field default to active.
func LoadYAML(path string) ([]Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses seed YAML from memory.
func ParseYAML(data []byte) ([]Seed, error) {
	var raw struct {
		Seeds []yaml.Node `yaml:"seeds"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seeds: %w", err)
	}
	out := make([]Seed, 0, len(raw.Seeds))
	for i, node := range raw.Seeds {
		s := Seed{IsActive: true, Severity: SeverityNone, Weight: 1}
		if err := node.Decode(&s); err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		if len(s.Triggers) == 0 {
			return nil, fmt.Errorf("seed %d (%s): no triggers", i, s.ID)
		}
		if !s.Label.Valid() {
			return nil, fmt.Errorf("seed %d (%s): unknown label %q", i, s.ID, s.Label)
		}
		out = append(out, s)
	}
	return out, nil
}

// #endregion
