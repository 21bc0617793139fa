package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/domain/types"
)

func TestEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.EngineConfig)
		wantErr bool
	}{
		{"defaults", func(c *config.EngineConfig) {}, false},
		{"nil location", func(c *config.EngineConfig) { c.Location = nil }, true},
		{"critical not above warning", func(c *config.EngineConfig) { c.CriticalInactivityDays = 3 }, true},
		{"zero lead window", func(c *config.EngineConfig) { c.LeadWindow = 0 }, true},
		{"zero milestone", func(c *config.EngineConfig) { c.MilestoneEvery = 0 }, true},
		{"horizon shorter than lead window", func(c *config.EngineConfig) { c.Horizon = time.Hour }, true},
		{"negative max results", func(c *config.EngineConfig) { c.MaxResults = -1 }, true},
		{"empty template override", func(c *config.EngineConfig) {
			c.Templates = map[types.RuleKey][]string{types.RuleMilestone: {}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.DefaultEngineConfig()
			tt.mutate(c)
			err := c.Validate()
			gt.Value(t, err != nil).Equal(tt.wantErr)
		})
	}
}
