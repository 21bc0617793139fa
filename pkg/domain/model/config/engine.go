package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/types"
)

// EngineConfig holds the thresholds and windows used by a sweep
type EngineConfig struct {
	// Location defines the calendar-day boundary for "completed today"
	Location *time.Location

	InactivityDays         int
	CriticalInactivityDays int
	LeadWindow             time.Duration
	MarketingWindow        time.Duration
	ReleaseClosingWindow   time.Duration
	MilestoneEvery         int

	// Lookback and Horizon bound the event and release window queries. A zero
	// Lookback reads without a lower bound.
	Lookback time.Duration
	Horizon  time.Duration

	SweepInterval time.Duration
	MaxResults    int

	// Templates overrides the built-in phrasing variants per rule
	Templates map[types.RuleKey][]string
}

const day = 24 * time.Hour

// DefaultEngineConfig returns the reference configuration
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Location:               time.UTC,
		InactivityDays:         3,
		CriticalInactivityDays: 7,
		LeadWindow:             14 * day,
		MarketingWindow:        7 * day,
		ReleaseClosingWindow:   3 * day,
		MilestoneEvery:         5,
		Lookback:               0,
		Horizon:                365 * day,
		SweepInterval:          5 * time.Minute,
		MaxResults:             0,
	}
}

// Validate checks that the thresholds are consistent
func (c *EngineConfig) Validate() error {
	if c.Location == nil {
		return goerr.New("location is required")
	}
	if c.InactivityDays < 1 {
		return goerr.New("inactivity days must be positive", goerr.V("inactivity_days", c.InactivityDays))
	}
	if c.CriticalInactivityDays <= c.InactivityDays {
		return goerr.New("critical inactivity days must exceed inactivity days",
			goerr.V("inactivity_days", c.InactivityDays),
			goerr.V("critical_inactivity_days", c.CriticalInactivityDays))
	}
	if c.LeadWindow <= 0 || c.MarketingWindow <= 0 || c.ReleaseClosingWindow <= 0 {
		return goerr.New("windows must be positive",
			goerr.V("lead_window", c.LeadWindow),
			goerr.V("marketing_window", c.MarketingWindow),
			goerr.V("release_closing_window", c.ReleaseClosingWindow))
	}
	if c.MilestoneEvery < 1 {
		return goerr.New("milestone interval must be positive", goerr.V("milestone_every", c.MilestoneEvery))
	}
	if c.Lookback < 0 || c.Horizon < c.LeadWindow {
		return goerr.New("horizon must cover the lead window and lookback must not be negative",
			goerr.V("lookback", c.Lookback), goerr.V("horizon", c.Horizon))
	}
	if c.SweepInterval <= 0 {
		return goerr.New("sweep interval must be positive", goerr.V("sweep_interval", c.SweepInterval))
	}
	if c.MaxResults < 0 {
		return goerr.New("max results must not be negative", goerr.V("max_results", c.MaxResults))
	}
	for key, variants := range c.Templates {
		if len(variants) == 0 {
			return goerr.New("template override has no variants", goerr.V("rule", key))
		}
	}
	return nil
}
