package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultPreset is used when no preset is requested.
const DefaultPreset = "normal"

//go:embed presets.toml
var builtinPresets string

// Preset holds the difficulty knobs a player can choose between.
type Preset struct {
	Name        string  `toml:"-"`
	EnemySpeed  float64 `toml:"enemy_speed"`
	ShootChance float64 `toml:"shoot_chance"`
	WaveMin     int     `toml:"wave_min"`
	WaveMax     int     `toml:"wave_max"`
}

type presetFile struct {
	Preset map[string]Preset `toml:"preset"`
}

// Presets maps preset names to their values.
type Presets map[string]Preset

// LoadPresets returns the built-in presets, overlaid with the presets in path
// when path is not empty. A preset in path replaces the built-in of the same name.
func LoadPresets(path string) (Presets, error) {
	var builtin presetFile
	if _, err := toml.Decode(builtinPresets, &builtin); err != nil {
		return nil, fmt.Errorf("built-in presets: %w", err)
	}

	presets := Presets{}
	for name, p := range builtin.Preset {
		p.Name = name
		presets[name] = p
	}

	if path == "" {
		return presets, nil
	}

	var custom presetFile
	md, err := toml.DecodeFile(path, &custom)
	if err != nil {
		return nil, fmt.Errorf("presets %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("presets %s: unknown keys %v", path, undecoded)
	}
	for name, p := range custom.Preset {
		p.Name = name
		presets[strings.ToLower(name)] = p
	}
	return presets, nil
}

// Lookup returns the named preset. Names are case-insensitive.
func (p Presets) Lookup(name string) (Preset, error) {
	if name == "" {
		name = DefaultPreset
	}
	preset, ok := p[strings.ToLower(name)]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(p.Names(), ", "))
	}
	return preset, nil
}

// Names returns the preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
