package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/toolcrate/toolcrate/cmd/common"
)

// shazamRun forwards the raw arguments to the music recognition tool,
// run as a one-off container with the music directory mounted at
// /music. No arguments means the tool prints its own usage.
func shazamRun(cliCtx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "shazam", "load_config", err)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newDockerClient(cfg.Docker.Container, cfg.Docker.ComposeFile)
	out, err := client.RunImage(ctx, cfg.Recognition.Image, cfg.Recognition.MusicDir, cliCtx.Args())
	if len(out) > 0 {
		fmt.Print(string(out))
	}
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "shazam", "run", err)
		return cli.NewExitError("", 1)
	}
	return nil
}
