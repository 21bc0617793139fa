package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/cli/config"
	"github.com/gigbook/herald/pkg/domain/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestParseEngineConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty file keeps defaults",
			content: ``,
		},
		{
			name: "overrides thresholds and windows",
			content: `
timezone = "Asia/Tokyo"
inactivity_days = 2
critical_inactivity_days = 10
lead_window = "240h"
sweep_interval = "1m"
max_results = 20

[templates]
contract_pending = ["Sign {{.task}} for {{.event}}"]
`,
		},
		{
			name:    "unknown timezone",
			content: `timezone = "Mars/Olympus"`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "invalid duration",
			content: `lead_window = "two weeks"`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "critical threshold below inactivity threshold",
			content: `
inactivity_days = 5
critical_inactivity_days = 4
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "empty template variants",
			content: "[templates]\ncontract_pending = []\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "malformed toml",
			content: `inactivity_days = `,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseEngineConfig([]byte(tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err)
		})
	}
}

func TestParseEngineConfig_Values(t *testing.T) {
	cfg, err := config.ParseEngineConfig([]byte(`
timezone = "Asia/Tokyo"
inactivity_days = 2
critical_inactivity_days = 10
lead_window = "240h"
sweep_interval = "1m"
max_results = 20

[templates]
contract_pending = ["Sign {{.task}} for {{.event}}"]
`))
	gt.NoError(t, err).Required()

	gt.Value(t, cfg.Location.String()).Equal("Asia/Tokyo")
	gt.Value(t, cfg.InactivityDays).Equal(2)
	gt.Value(t, cfg.CriticalInactivityDays).Equal(10)
	gt.Value(t, cfg.LeadWindow).Equal(240 * time.Hour)
	gt.Value(t, cfg.SweepInterval).Equal(time.Minute)
	gt.Value(t, cfg.MaxResults).Equal(20)
	gt.Array(t, cfg.Templates[types.RuleContractPending]).Length(1)

	// untouched fields keep defaults
	gt.Value(t, cfg.MilestoneEvery).Equal(5)
	gt.Value(t, cfg.MarketingWindow).Equal(7 * 24 * time.Hour)
}

func TestLoadEngineConfig_NotFound(t *testing.T) {
	_, err := config.LoadEngineConfig(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestEngine_Configure(t *testing.T) {
	t.Run("defaults without file or flags", func(t *testing.T) {
		cfg, err := config.NewEngineForTest("", "", 0, 0).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.SweepInterval).Equal(5 * time.Minute)
		gt.Value(t, cfg.Location).Equal(time.UTC)
	})

	t.Run("flags override the file", func(t *testing.T) {
		path := writeFile(t, "engine.toml", `
timezone = "Asia/Tokyo"
sweep_interval = "10m"
max_results = 5
`)
		cfg, err := config.NewEngineForTest(path, "Europe/Berlin", 30*time.Second, 0).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Location.String()).Equal("Europe/Berlin")
		gt.Value(t, cfg.SweepInterval).Equal(30 * time.Second)
		gt.Value(t, cfg.MaxResults).Equal(5)
	})

	t.Run("unknown timezone flag", func(t *testing.T) {
		_, err := config.NewEngineForTest("", "Nowhere/Land", 0, 0).Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.NewEngineForTest(filepath.Join(t.TempDir(), "nope.toml"), "", 0, 0).Configure()
		gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
	})
}
