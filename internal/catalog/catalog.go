// Package catalog loads and saves the reaction catalog: the TOML file where
// a user lists the two-body reactions to plan, each as (Z, A) triples for
// target, projectile and ejectile plus any extra excitation levels.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/alconley/sps-plot/internal/kinematics"
)

// DefaultPath is the conventional location for the reaction catalog.
const DefaultPath = ".spsplot/reactions.toml"

// Species is a (Z, A) pair as written in the catalog file.
type Species struct {
	Z int `toml:"z"`
	A int `toml:"a"`
}

// Entry describes one reaction in the catalog. The residual is not listed:
// it is derived from charge and mass-number balance during resolution.
type Entry struct {
	Target      Species   `toml:"target"`
	Projectile  Species   `toml:"projectile"`
	Ejectile    Species   `toml:"ejectile"`
	ExtraLevels []float64 `toml:"extra_levels,omitempty"`
}

// Catalog is the full content of a reactions.toml file.
type Catalog struct {
	Reactions []Entry `toml:"reactions"`
}

// Reaction builds the kinematics entity for an entry. Extra levels are
// copied so later catalog edits cannot alias into an evaluated reaction.
func (e Entry) Reaction() *kinematics.Reaction {
	return &kinematics.Reaction{
		Target:      kinematics.Role{Z: e.Target.Z, A: e.Target.A},
		Projectile:  kinematics.Role{Z: e.Projectile.Z, A: e.Projectile.A},
		Ejectile:    kinematics.Role{Z: e.Ejectile.Z, A: e.Ejectile.A},
		ExtraLevels: append([]float64(nil), e.ExtraLevels...),
	}
}

// Load reads a catalog from the given path. A missing file yields an empty
// catalog and no error, so a fresh checkout works without setup.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the catalog to the given path, creating parent directories as
// needed.
func Save(path string, c *Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("catalog: creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("catalog: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: writing %s: %w", path, err)
	}
	return nil
}

// validate rejects entries the engine could never evaluate sensibly:
// negative charge or mass numbers and negative extra levels.
func (c *Catalog) validate() error {
	for i, e := range c.Reactions {
		for _, sp := range []Species{e.Target, e.Projectile, e.Ejectile} {
			if sp.Z < 0 || sp.A < 0 {
				return fmt.Errorf("reaction %d: negative Z or A (Z=%d, A=%d)", i, sp.Z, sp.A)
			}
		}
		for _, ex := range e.ExtraLevels {
			if ex < 0 {
				return fmt.Errorf("reaction %d: negative extra level %g MeV", i, ex)
			}
		}
	}
	return nil
}
