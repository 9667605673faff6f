package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/toolcrate/toolcrate/cmd/common"
	"github.com/toolcrate/toolcrate/internal/config"
	"github.com/toolcrate/toolcrate/internal/queue"
)

var (
	forceClear bool

	clearFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "clear without asking for confirmation",
			Destination: &forceClear,
		},
	}
)

func profilePaths(cliCtx *cli.Context, name string) (config.Profile, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Profile{}, err
	}
	return cfg.Profile(name)
}

func profileAdd(cliCtx *cli.Context, name string) error {
	entry := strings.TrimSpace(strings.Join(cliCtx.Args(), " "))
	if entry == "" {
		return common.PrintErrWithCmdHelp(cliCtx, errors.New("no entry provided"))
	}
	profile, err := profilePaths(cliCtx, name)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "add", err)
		return nil
	}
	if err := queue.AppendEntry(cmdFs, profile.LiveFile, entry, time.Now()); err != nil {
		common.PrintRuntimeErr(cliCtx, name, "add", err)
		return nil
	}
	fmt.Printf("Added to %s: %s\n", name, entry)
	return nil
}

func profileList(cliCtx *cli.Context, name string) error {
	profile, err := profilePaths(cliCtx, name)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "list", err)
		return nil
	}
	entries, err := queue.ReadEntries(cmdFs, profile.LiveFile)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "list", err)
		return nil
	}
	if len(entries) == 0 {
		fmt.Printf("toolcrate: %s is empty (%s)\n", name, profile.LiveFile)
		return nil
	}
	fmt.Printf("Entries in %s:\n", profile.LiveFile)
	for i, e := range entries {
		fmt.Printf("%3d. %s\n", i+1, e.Text)
	}
	return nil
}

func profileClear(cliCtx *cli.Context, name string) error {
	profile, err := profilePaths(cliCtx, name)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "clear", err)
		return nil
	}
	entries, err := queue.ReadEntries(cmdFs, profile.LiveFile)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "clear", err)
		return nil
	}
	if len(entries) == 0 {
		fmt.Printf("toolcrate: %s is already empty\n", name)
		return nil
	}
	if !confirm(fmt.Sprintf("drop %d pending %s entries", len(entries), name), forceClear) {
		return nil
	}
	if err := queue.ClearFile(cmdFs, profile.LiveFile); err != nil {
		common.PrintRuntimeErr(cliCtx, name, "clear", err)
		return nil
	}
	fmt.Printf("Cleared %d entries from %s.\n", len(entries), profile.LiveFile)
	return nil
}

func profileStatus(cliCtx *cli.Context, name string) error {
	profile, err := profilePaths(cliCtx, name)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "status", err)
		return nil
	}
	entries, err := queue.ReadEntries(cmdFs, profile.LiveFile)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "status", err)
		return nil
	}
	processed, err := queue.ReadEntries(cmdFs, profile.BackupFile)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "status", err)
		return nil
	}

	fmt.Printf("%s status:\n", name)
	fmt.Printf("  pending entries:   %d (%s)\n", len(entries), profile.LiveFile)
	fmt.Printf("  processed entries: %d (%s)\n", len(processed), profile.BackupFile)

	if info, err := cmdFs.Stat(profile.LockFile); err == nil {
		age := time.Since(info.ModTime()).Round(time.Second)
		fmt.Printf("  lock:              held for %s (%s)\n", age, profile.LockFile)
	} else {
		fmt.Printf("  lock:              free\n")
	}
	return nil
}
