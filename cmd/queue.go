package cmd

import "github.com/urfave/cli"

func queueAdd(ctx *cli.Context) error {
	return profileAdd(ctx, "queue")
}

func queueList(ctx *cli.Context) error {
	return profileList(ctx, "queue")
}

func queueRun(ctx *cli.Context) error {
	return runProfile(ctx, "queue")
}

func queueClear(ctx *cli.Context) error {
	return profileClear(ctx, "queue")
}

func queueStatus(ctx *cli.Context) error {
	return profileStatus(ctx, "queue")
}
