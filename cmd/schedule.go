package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/toolcrate/toolcrate/cmd/common"
	"github.com/toolcrate/toolcrate/internal/cron"
)

var (
	schedFrequency string
	schedExpr      string

	scheduleFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "frequency, f",
			Usage:       "preset schedule: hourly, daily or weekly",
			Destination: &schedFrequency,
		},
		cli.StringFlag{
			Name:        "cron, c",
			Usage:       "raw 5-field cron expression (overrides --frequency)",
			Destination: &schedExpr,
		},
	}
)

// The wishlist job is offset so it never races the queue job for the
// sldl container.
var profileMinuteOffset = map[string]int{
	"queue":    0,
	"wishlist": 30,
}

// Injection points for tests.
var (
	newCrontab = func() *cron.Crontab { return cron.NewCrontab() }
	executable = os.Executable
)

func scheduleArg(cliCtx *cli.Context) (string, error) {
	name := cliCtx.Args().First()
	if _, ok := profileMinuteOffset[name]; !ok {
		return "", fmt.Errorf("expected a profile argument (queue or wishlist), got %q", name)
	}
	return name, nil
}

func jobCommand(profile string) (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	cmd := cronQuote(exe)
	if cfgPath != "" {
		cmd += " --config " + cronQuote(cfgPath)
	}
	return fmt.Sprintf("%s %s run --no-progress", cmd, profile), nil
}

// cronQuote protects a path for the shell line cron runs. Paths without
// whitespace stay bare so the common case reads naturally in crontab -l.
func cronQuote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return strconv.Quote(s)
	}
	return s
}

func scheduleSet(cliCtx *cli.Context) error {
	name, err := scheduleArg(cliCtx)
	if err != nil {
		return common.PrintErrWithCmdHelp(cliCtx, err)
	}

	var expr string
	switch {
	case schedExpr != "":
		if err := cron.ValidateExpr(schedExpr); err != nil {
			return common.PrintErrWithCmdHelp(cliCtx, err)
		}
		expr = schedExpr
	case schedFrequency != "":
		expr, err = cron.ExprFor(schedFrequency, profileMinuteOffset[name])
		if err != nil {
			return common.PrintErrWithCmdHelp(cliCtx, err)
		}
	default:
		return common.PrintErrWithCmdHelp(cliCtx,
			errors.New("either --frequency or --cron is required"))
	}

	command, err := jobCommand(name)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "schedule", "set", err)
		return nil
	}
	job := cron.Job{Name: name, Expr: expr, Command: command}
	if err := newCrontab().SetJob(context.Background(), job); err != nil {
		common.PrintRuntimeErr(cliCtx, "schedule", "set", err)
		return nil
	}
	fmt.Printf("Scheduled %s runs: %s\n", name, expr)
	return nil
}

func scheduleRemove(cliCtx *cli.Context) error {
	name, err := scheduleArg(cliCtx)
	if err != nil {
		return common.PrintErrWithCmdHelp(cliCtx, err)
	}
	if err := newCrontab().RemoveJob(context.Background(), name); err != nil {
		common.PrintRuntimeErr(cliCtx, "schedule", "remove", err)
		return nil
	}
	fmt.Printf("Removed the %s schedule.\n", name)
	return nil
}

func scheduleList(cliCtx *cli.Context) error {
	jobs, err := newCrontab().Jobs(context.Background())
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "schedule", "list", err)
		return nil
	}
	if len(jobs) == 0 {
		fmt.Println("toolcrate: no scheduled jobs")
		return nil
	}
	fmt.Println("Scheduled jobs:")
	for _, j := range jobs {
		fmt.Printf("  %-10s %-16s %s\n", j.Name, j.Expr, j.Command)
	}
	return nil
}
