package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/toolcrate/toolcrate/cmd/common"
	"github.com/toolcrate/toolcrate/internal/config"
	"github.com/toolcrate/toolcrate/internal/docker"
	"github.com/toolcrate/toolcrate/internal/history"
	"github.com/toolcrate/toolcrate/internal/logging"
	"github.com/toolcrate/toolcrate/internal/queue"
)

// Exit code for a run that found the lock held by another process, so
// cron wrappers can tell "busy" from "broken".
const lockedExitCode = 3

var (
	noProgress bool

	runFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "no-progress, q",
			Usage:       "disable the progress bar (useful under cron)",
			Destination: &noProgress,
		},
	}
)

// Injection points for tests.
var (
	newDispatcher = func(ctx context.Context, client *docker.Client, profile config.Profile, log *slog.Logger) (queue.Dispatcher, error) {
		return docker.NewDispatcher(ctx, client, profile, log)
	}
	openHistory = history.Open
)

func runProfile(cliCtx *cli.Context, name string) error {
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "load_config", err)
		return cli.NewExitError("", 1)
	}
	profile, err := cfg.Profile(name)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "profile", err)
		return cli.NewExitError("", 1)
	}
	if !profile.Enabled {
		fmt.Printf("toolcrate: %s profile is disabled in %s\n", name, configPath())
		return nil
	}

	log := logging.Setup(cfg.Logger)

	// A SIGINT mid-run stops before the next entry; everything not yet
	// processed stays in the file.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newDockerClient(cfg.Docker.Container, cfg.Docker.ComposeFile)
	dispatcher, err := newDispatcher(ctx, client, profile, log)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, name, "dispatcher", err)
		return cli.NewExitError("", 1)
	}

	proc := &queue.Processor{
		FS:             cmdFs,
		LivePath:       profile.LiveFile,
		BackupPath:     profile.BackupFile,
		LockPath:       profile.LockFile,
		LockStaleAfter: profile.LockStaleAfter,
		KeepOnSuccess:  profile.KeepOnSuccess,
		Dispatcher:     dispatcher,
		Log:            log,
	}

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	if !noProgress {
		p = mpb.New()
		proc.OnEntry = func(i, total int, _ queue.Entry, _ error) {
			if bar == nil {
				bar = common.InitRunBar(p, "", int64(total))
			}
			bar.Increment()
		}
	}

	started := time.Now()
	res, runErr := proc.Run(ctx)
	if p != nil {
		// An interrupted run leaves the bar incomplete; abort it so
		// Wait does not block.
		if bar != nil && !bar.Completed() {
			bar.Abort(false)
		}
		p.Wait()
	}

	if res != nil && len(res.Outcomes) > 0 && cfg.HistoryEnabled() {
		if err := recordHistory(name, started, cfg, res); err != nil {
			log.Warn("could not record run history", "err", err)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, queue.ErrLocked) {
			fmt.Printf("toolcrate: %s run already in progress: %s\n", name, runErr.Error())
			return cli.NewExitError("", lockedExitCode)
		}
		common.PrintRuntimeErr(cliCtx, name, "run", runErr)
		return cli.NewExitError("", 1)
	}

	fmt.Printf("toolcrate: %s run complete: %d attempted, %d succeeded, %d failed\n",
		name, res.Attempted, res.Succeeded, res.Failed)
	return nil
}

func recordHistory(profile string, started time.Time, cfg *config.Config, res *queue.RunResult) error {
	store, err := openHistory(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordRun(context.Background(), profile, started, res)
}
