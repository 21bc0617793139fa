package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/domain/types"
)

// Engine holds CLI flags for the sweep thresholds
type Engine struct {
	path          string
	timezone      string
	sweepInterval time.Duration
	maxResults    int
}

func (x *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "engine-config",
			Aliases:     []string{"c"},
			Usage:       "Path to engine configuration TOML file",
			Category:    "Engine",
			Sources:     cli.EnvVars("HERALD_ENGINE_CONFIG"),
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA time zone for calendar-day boundaries (overrides the file)",
			Category:    "Engine",
			Sources:     cli.EnvVars("HERALD_TIMEZONE"),
			Destination: &x.timezone,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval between sweeps of an active user (overrides the file)",
			Category:    "Engine",
			Sources:     cli.EnvVars("HERALD_SWEEP_INTERVAL"),
			Destination: &x.sweepInterval,
		},
		&cli.IntFlag{
			Name:        "max-results",
			Usage:       "Maximum notifications returned per request, 0 for unlimited (overrides the file)",
			Category:    "Engine",
			Sources:     cli.EnvVars("HERALD_MAX_RESULTS"),
			Destination: &x.maxResults,
		},
	}
}

func (x Engine) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.String("timezone", x.timezone),
		slog.Duration("sweep_interval", x.sweepInterval),
		slog.Int("max_results", x.maxResults),
	)
}

// Configure loads the file when given, then applies flag overrides
func (x *Engine) Configure() (*domainConfig.EngineConfig, error) {
	cfg := domainConfig.DefaultEngineConfig()
	if x.path != "" {
		loaded, err := LoadEngineConfig(x.path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if x.timezone != "" {
		loc, err := time.LoadLocation(x.timezone)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V(ValueKey, x.timezone))
		}
		cfg.Location = loc
	}
	if x.sweepInterval > 0 {
		cfg.SweepInterval = x.sweepInterval
	}
	if x.maxResults > 0 {
		cfg.MaxResults = x.maxResults
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return cfg, nil
}

// engineFile is the TOML layout of the engine configuration. Durations use
// Go duration syntax ("336h"). Omitted fields keep their defaults.
type engineFile struct {
	Timezone               string              `toml:"timezone"`
	InactivityDays         *int                `toml:"inactivity_days"`
	CriticalInactivityDays *int                `toml:"critical_inactivity_days"`
	LeadWindow             string              `toml:"lead_window"`
	MarketingWindow        string              `toml:"marketing_window"`
	ReleaseClosingWindow   string              `toml:"release_closing_window"`
	MilestoneEvery         *int                `toml:"milestone_every"`
	Lookback               string              `toml:"lookback"`
	Horizon                string              `toml:"horizon"`
	SweepInterval          string              `toml:"sweep_interval"`
	MaxResults             *int                `toml:"max_results"`
	Templates              map[string][]string `toml:"templates"`
}

// LoadEngineConfig reads an engine configuration TOML file on top of the defaults
func LoadEngineConfig(path string) (*domainConfig.EngineConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	cfg, err := ParseEngineConfig(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load engine config", goerr.V(ConfigPathKey, path))
	}
	return cfg, nil
}

// ParseEngineConfig decodes TOML data on top of the defaults and validates the result
func ParseEngineConfig(data []byte) (*domainConfig.EngineConfig, error) {
	var file engineFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error())
	}

	cfg := domainConfig.DefaultEngineConfig()

	if file.Timezone != "" {
		loc, err := time.LoadLocation(file.Timezone)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown timezone",
				goerr.V(FieldKey, "timezone"), goerr.V(ValueKey, file.Timezone))
		}
		cfg.Location = loc
	}

	setInt(&cfg.InactivityDays, file.InactivityDays)
	setInt(&cfg.CriticalInactivityDays, file.CriticalInactivityDays)
	setInt(&cfg.MilestoneEvery, file.MilestoneEvery)
	setInt(&cfg.MaxResults, file.MaxResults)

	durations := []struct {
		field string
		value string
		dst   *time.Duration
	}{
		{"lead_window", file.LeadWindow, &cfg.LeadWindow},
		{"marketing_window", file.MarketingWindow, &cfg.MarketingWindow},
		{"release_closing_window", file.ReleaseClosingWindow, &cfg.ReleaseClosingWindow},
		{"lookback", file.Lookback, &cfg.Lookback},
		{"horizon", file.Horizon, &cfg.Horizon},
		{"sweep_interval", file.SweepInterval, &cfg.SweepInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "invalid duration",
				goerr.V(FieldKey, d.field), goerr.V(ValueKey, d.value))
		}
		*d.dst = v
	}

	if len(file.Templates) > 0 {
		cfg.Templates = make(map[types.RuleKey][]string, len(file.Templates))
		for key, variants := range file.Templates {
			cfg.Templates[types.RuleKey(key)] = variants
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return cfg, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
