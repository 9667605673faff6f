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
	"github.com/toolcrate/toolcrate/internal/docker"
)

func dockerClient(cliCtx *cli.Context, action string) (*docker.Client, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "docker", action, err)
		return nil, nil, nil, err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return newDockerClient(cfg.Docker.Container, cfg.Docker.ComposeFile), ctx, stop, nil
}

func dockerUp(cliCtx *cli.Context) error {
	client, ctx, stop, err := dockerClient(cliCtx, "up")
	if err != nil {
		return nil
	}
	defer stop()
	if err := client.ComposeUp(ctx); err != nil {
		common.PrintRuntimeErr(cliCtx, "docker", "up", err)
		return nil
	}
	fmt.Println("sldl stack is up.")
	return nil
}

func dockerDown(cliCtx *cli.Context) error {
	client, ctx, stop, err := dockerClient(cliCtx, "down")
	if err != nil {
		return nil
	}
	defer stop()
	if err := client.ComposeDown(ctx); err != nil {
		common.PrintRuntimeErr(cliCtx, "docker", "down", err)
		return nil
	}
	fmt.Println("sldl stack is down.")
	return nil
}

func dockerStatus(cliCtx *cli.Context) error {
	client, ctx, stop, err := dockerClient(cliCtx, "status")
	if err != nil {
		return nil
	}
	defer stop()
	container, err := client.FindContainer(ctx)
	if err != nil {
		if errors.Is(err, docker.ErrContainerNotRunning) {
			fmt.Println("sldl container: not running")
			return nil
		}
		common.PrintRuntimeErr(cliCtx, "docker", "status", err)
		return nil
	}
	fmt.Printf("sldl container: running (%s)\n", container)
	return nil
}
