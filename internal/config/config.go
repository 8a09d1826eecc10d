package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/observability"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Drag     DragConfig
	Lanes    LanesConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Board    BoardConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// DragConfig tunes the drag gesture. OverlapMetric defaults to "width": with
// one-row card floats, "legacy" only hands a card to the lane on its right
// once it barely overlaps the lane it is leaving.
type DragConfig struct {
	MinPress          time.Duration `mapstructure:"min_press"`
	Alpha             float64
	OverlapMetric     string `mapstructure:"overlap_metric"`
	AllowableMovement int    `mapstructure:"allowable_movement"`
}

// LanesConfig holds per-lane rules. A WIP limit of 0 means unlimited.
type LanesConfig struct {
	WIPLimit int `mapstructure:"wip_limit"`
}

type LogConfig struct {
	Path  string
	Level string
}

// MetricsConfig enables the /metrics endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

// BoardConfig names an optional YAML board to seed an empty database from.
type BoardConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// Path returns the config file location: $CARDSHIFT_CONFIG or the default
// under ~/.config.
func Path() string {
	if p := os.Getenv("CARDSHIFT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "cardshift", "config.toml")
}

func defaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "cardshift", "cardshift.db"))
	v.SetDefault("drag.min_press", dnd.DefaultMinPress)
	v.SetDefault("drag.alpha", dnd.DefaultAlpha)
	v.SetDefault("drag.overlap_metric", dnd.MetricWidth.String())
	v.SetDefault("drag.allowable_movement", 1)
	v.SetDefault("lanes.wip_limit", 0)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "cardshift", "cardshift.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("board.seed_file", "")
}

// Load reads configuration from file and env. Env var overrides use prefix CARDSHIFT_.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("CARDSHIFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the drag layer cannot use.
func (c Config) Validate() error {
	if _, err := dnd.ParseOverlapMetric(c.Drag.OverlapMetric); err != nil {
		return fmt.Errorf("drag.overlap_metric: %w", err)
	}
	if c.Drag.Alpha <= 0 || c.Drag.Alpha > 1 {
		return fmt.Errorf("drag.alpha: %v is outside (0, 1]", c.Drag.Alpha)
	}
	if c.Drag.MinPress < 0 {
		return fmt.Errorf("drag.min_press: %v is negative", c.Drag.MinPress)
	}
	if c.Drag.AllowableMovement < 0 {
		return fmt.Errorf("drag.allowable_movement: %d is negative", c.Drag.AllowableMovement)
	}
	if c.Lanes.WIPLimit < 0 {
		return fmt.Errorf("lanes.wip_limit: %d is negative", c.Lanes.WIPLimit)
	}
	if _, err := observability.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("drag.min_press", cfg.Drag.MinPress.String())
	v.Set("drag.alpha", cfg.Drag.Alpha)
	v.Set("drag.overlap_metric", cfg.Drag.OverlapMetric)
	v.Set("drag.allowable_movement", cfg.Drag.AllowableMovement)
	v.Set("lanes.wip_limit", cfg.Lanes.WIPLimit)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	v.Set("board.seed_file", cfg.Board.SeedFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// CoordinatorOptions maps the drag settings onto coordinator options.
func (c Config) CoordinatorOptions() ([]dnd.Option, error) {
	metric, err := dnd.ParseOverlapMetric(c.Drag.OverlapMetric)
	if err != nil {
		return nil, err
	}
	return []dnd.Option{
		dnd.WithMinPress(c.Drag.MinPress),
		dnd.WithAlpha(c.Drag.Alpha),
		dnd.WithOverlapMetric(metric),
	}, nil
}
