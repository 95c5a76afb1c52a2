package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InitialCapacity int     `yaml:"initial_capacity"`
	Layout          string  `yaml:"layout"`
	Material        string  `yaml:"material"`
	OverlayMaterial string  `yaml:"overlay_material"`
	Script          string  `yaml:"script"`
	AssetDir        string  `yaml:"asset_dir"`
	Watch           bool    `yaml:"watch"`
	Bodies          int     `yaml:"bodies"`
	Gravity         float64 `yaml:"gravity"`
	Zoom            float64 `yaml:"zoom"`
}

func defaultConfig() Config {
	return Config{
		InitialCapacity: 2048,
		Layout:          "interleaved",
		Material:        "materials/simple_unlit.yaml",
		OverlayMaterial: "materials/contact_lines.yaml",
		Script:          "scripts/axes.tengo",
		Bodies:          40,
		Gravity:         600,
		Zoom:            1,
	}
}

// loadConfig overlays the YAML file at path onto the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
