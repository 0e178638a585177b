package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and overlays it onto Defaults(). Fields
// absent from the file keep their default value: the zero value for an
// int is not distinguishable from "unset" here, so a config file must
// supply every field it wants to change.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if overlay.Threshold != 0 {
		cfg.Threshold = overlay.Threshold
	}
	if overlay.TimeLimitSeconds != 0 {
		cfg.TimeLimitSeconds = overlay.TimeLimitSeconds
	}
	if overlay.WorkerCount != 0 {
		cfg.WorkerCount = overlay.WorkerCount
	}

	return cfg, nil
}
