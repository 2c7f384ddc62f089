// Package presets holds named configurations used as the base for config files.
package presets

import (
	"fmt"
	"slices"
	"sort"

	"github.com/spacemeshos/go-smartaccount/config"
)

var presets = map[string]config.Config{}

func register(name string, cfg config.Config) {
	if _, exist := presets[name]; exist {
		panic(fmt.Sprintf("preset %s already registered", name))
	}
	presets[name] = cfg
}

// Options returns the sorted names of registered presets.
func Options() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the preset with the given name.
func Get(name string) (config.Config, error) {
	cfg, exist := presets[name]
	if !exist {
		return config.Config{}, fmt.Errorf("preset %q not found, available: %v", name, Options())
	}
	cfg.Whitelist.Implementations = slices.Clone(cfg.Whitelist.Implementations)
	cfg.Whitelist.Hooks = slices.Clone(cfg.Whitelist.Hooks)
	return cfg, nil
}
