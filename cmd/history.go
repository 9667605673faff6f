package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/toolcrate/toolcrate/cmd/common"
)

var (
	historyLimit int

	historyFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "limit, n",
			Usage:       "number of ledger entries to show",
			Value:       20,
			Destination: &historyLimit,
		},
	}
)

func historyShow(cliCtx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "history", "load_config", err)
		return nil
	}
	if !cfg.HistoryEnabled() {
		fmt.Println("toolcrate: history is disabled in the config")
		return nil
	}
	store, err := openHistory(cfg.HistoryPath())
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "history", "open", err)
		return nil
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "history", "query", err)
		return nil
	}
	if len(records) == 0 {
		fmt.Println("toolcrate: no runs recorded yet")
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-8s  %-7s  %s",
			r.RunAt.Local().Format("2006-01-02 15:04"), r.Profile, r.Outcome, r.Entry)
		if r.Detail != "" {
			line += "  (" + r.Detail + ")"
		}
		fmt.Println(line)
	}
	return nil
}
