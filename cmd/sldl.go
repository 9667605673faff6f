package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/toolcrate/toolcrate/cmd/common"
)

// sldlRun forwards the raw arguments to the sldl binary inside the
// container. No flags of its own so everything after "sldl" passes
// through untouched.
func sldlRun(cliCtx *cli.Context) error {
	args := cliCtx.Args()
	if len(args) == 0 {
		return common.PrintErrWithCmdHelp(cliCtx, errors.New("no sldl arguments provided"))
	}
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "sldl", "load_config", err)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newDockerClient(cfg.Docker.Container, cfg.Docker.ComposeFile)
	container, err := client.FindContainer(ctx)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "sldl", "find_container", err)
		return nil
	}

	argv := append([]string{"sldl"}, args...)
	out, err := client.Exec(ctx, container, argv)
	if len(out) > 0 {
		fmt.Print(string(out))
	}
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "sldl", "exec", err)
		return cli.NewExitError("", 1)
	}
	return nil
}
