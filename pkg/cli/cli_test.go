package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/cli"
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/utils/logging"
)

func TestRun_Sweep(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.toml")
	gt.NoError(t, os.WriteFile(fixture, []byte(`
last_session_at = "-1h"

[[event]]
id = "evt-1"
title = "Riverside Gig"
venue = "Riverside Hall"
starts_at = "+120h"

[[work_item]]
id = "task-1"
title = "Sign contract"
category = "legal"
event_id = "evt-1"
`), 0600)).Required()

	t.Run("memory backend with fixture", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"herald", "--log-level", "error",
			"sweep",
			"--repository-backend", "memory",
			"--user", "user-1",
			"--fixture", fixture,
		}, "test")
		gt.NoError(t, err)
	})

	t.Run("sqlite backend persists between runs", func(t *testing.T) {
		db := filepath.Join(dir, "herald.db")
		for range 2 {
			err := cli.Run(context.Background(), []string{
				"herald", "--log-level", "error",
				"sweep",
				"--repository-backend", "sqlite",
				"--sqlite-path", db,
				"--user", "user-1",
				"--fixture", fixture,
			}, "test")
			gt.NoError(t, err).Required()
		}
	})

	t.Run("user is required", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"herald", "--log-level", "error",
			"sweep", "--repository-backend", "memory",
		}, "test")
		gt.Error(t, err)
	})

	t.Run("missing fixture file", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"herald", "--log-level", "error",
			"sweep", "--repository-backend", "memory",
			"--user", "user-1",
			"--fixture", filepath.Join(dir, "missing.toml"),
		}, "test")
		gt.Error(t, err)
	})
}

func TestPrintNotifications(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	t.Run("empty list", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintNotifications(&buf, nil)
		gt.Value(t, buf.String()).Equal("No active notifications\n")
	})

	t.Run("renders urgency, action and identity", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintNotifications(&buf, []*model.Notification{
			{
				ID:          "ntf_1",
				RuleKey:     types.RuleContractPending,
				Urgency:     types.UrgencyCritical,
				Title:       "Contract pending for Riverside Gig",
				Message:     "Sign contract is still pending and Riverside Gig is only 5 days away.",
				ActionLabel: "Review contract",
				ActionRef:   "work_item:task-1",
				CreatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		})

		out := buf.String()
		gt.String(t, out).Contains("[critical] Contract pending for Riverside Gig")
		gt.String(t, out).Contains("-> Review contract (work_item:task-1)")
		gt.String(t, out).Contains("id=ntf_1 rule=contract_pending")
	})
}

func TestIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig()
	gt.Array(t, cfg.Collections).Length(2).Required()
	gt.Value(t, cfg.Collections[0].Name).Equal("work_items")
	gt.Value(t, cfg.Collections[1].Name).Equal("notifications")
}
