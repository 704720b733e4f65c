// Package config loads runtime configuration from the environment and an
// optional YAML tunables file, the way the teacher's main.go loads its .env
// before anything else runs.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Tunables are the constants spec.md §4.2-§4.3 call "recommended constants".
// They're kept out of code so a deployment can retune without a rebuild.
type Tunables struct {
	ChunkSize         int     `yaml:"chunk_size"`
	OverlapSize       int     `yaml:"overlap_size"`
	InternalSampleHz  int     `yaml:"internal_sample_hz"`
	LowPassCutoffHz   float64 `yaml:"low_pass_cutoff_hz"`
	MinTargetZoneDist int     `yaml:"min_target_zone_dist"`
	MaxTargetZone     int     `yaml:"max_target_zone"`
	FreqStepHz        float64 `yaml:"freq_step_hz"`
	DeltaStepSec      float64 `yaml:"delta_step_sec"`
	TopK              int     `yaml:"top_k"`
}

// DefaultTunables mirrors spec.md's "recommended constants".
func DefaultTunables() Tunables {
	return Tunables{
		ChunkSize:         4096,
		OverlapSize:       2048,
		InternalSampleHz:  11025,
		LowPassCutoffHz:   5000,
		MinTargetZoneDist: 1,
		MaxTargetZone:     60,
		FreqStepHz:        50,
		DeltaStepSec:      0.1,
		TopK:              5,
	}
}

// Config is the process-wide configuration, assembled once at startup.
type Config struct {
	DatabaseURL string
	Tunables    Tunables
}

// Load reads .env (if present, teacher-style, missing file is not fatal here
// since not every invocation needs a database), then overlays a YAML
// tunables file when one is named by SHAZOOM_CONFIG.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Tunables:    DefaultTunables(),
	}

	if path := os.Getenv("SHAZOOM_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading tunables file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg.Tunables); err != nil {
			return cfg, fmt.Errorf("parsing tunables file %q: %w", path, err)
		}
	}

	return cfg, nil
}

// GetEnv returns the named environment variable or a fallback, the way the
// teacher's db.NewDBClient reads DB_USER/DB_HOST/etc.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
