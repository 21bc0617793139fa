package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/gigbook/herald/pkg/cli/config"
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/usecase"
	"github.com/gigbook/herald/pkg/utils/clock"
	"github.com/gigbook/herald/pkg/utils/logging"
)

func cmdSweep() *cli.Command {
	var userID string
	var fixturePath string
	var limit int
	var repoCfg config.Repository
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to sweep",
			Required:    true,
			Sources:     cli.EnvVars("HERALD_USER"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "fixture",
			Aliases:     []string{"f"},
			Usage:       "TOML fixture of events, work items, goals and release windows to seed before sweeping",
			Destination: &fixturePath,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum notifications to print, 0 for all",
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:  "sweep",
		Usage: "Run one sweep for a user and print the ranked notifications",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			engine, err := engineCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load engine configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			clk := clock.Real()
			if fixturePath != "" {
				fixture, err := config.LoadFixture(fixturePath)
				if err != nil {
					return err
				}
				if err := fixture.Seed(ctx, repo, types.UserID(userID), clk.Now()); err != nil {
					return goerr.Wrap(err, "failed to seed fixture", goerr.V("path", fixturePath))
				}
				logging.Default().Info("Fixture seeded", "path", fixturePath, "user_id", userID)
			}

			uc, err := usecase.New(repo, usecase.WithEngineConfig(engine), usecase.WithClock(clk))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize use cases")
			}

			if _, err := uc.Notification.RunSweep(ctx, types.UserID(userID)); err != nil {
				return goerr.Wrap(err, "sweep failed")
			}

			list, err := uc.Notification.GetActiveNotifications(ctx, types.UserID(userID), limit)
			if err != nil {
				return goerr.Wrap(err, "failed to list notifications")
			}

			w := c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			printNotifications(w, list)
			return nil
		},
	}
}

var urgencyColors = map[types.Urgency]*color.Color{
	types.UrgencyCritical: color.New(color.FgRed, color.Bold),
	types.UrgencyHigh:     color.New(color.FgRed),
	types.UrgencyMedium:   color.New(color.FgYellow),
	types.UrgencyLow:      color.New(color.FgCyan),
}

func printNotifications(w io.Writer, list []*model.Notification) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No active notifications")
		return
	}

	for _, n := range list {
		label := fmt.Sprintf("[%s]", n.Urgency)
		if c, ok := urgencyColors[n.Urgency]; ok {
			label = c.Sprint(label)
		}

		fmt.Fprintf(w, "%s %s\n", label, n.Title)
		fmt.Fprintf(w, "    %s\n", n.Message)
		if n.ActionLabel != "" {
			fmt.Fprintf(w, "    -> %s (%s)\n", n.ActionLabel, n.ActionRef)
		}
		fmt.Fprintf(w, "    id=%s rule=%s\n", n.ID, n.RuleKey)
	}
}
