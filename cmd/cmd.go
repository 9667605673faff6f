package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/toolcrate/toolcrate/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "toolcrate",
		HelpName:              "toolcrate",
		Usage:                 "A batch download queue for the sldl Soulseek downloader.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "toolcrate <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:        "config, C",
				Usage:       "path to toolcrate.yaml (default: ~/.config/toolcrate/toolcrate.yaml)",
				Destination: &cfgPath,
			},
		},
		Commands: []cli.Command{
			{
				Name:               "queue",
				Aliases:            []string{"q"},
				Usage:              "manage and process the download queue",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        QueueDescription,
				Subcommands: []cli.Command{
					{
						Name:         "add",
						Usage:        "append an entry to the queue",
						Action:       queueAdd,
						OnUsageError: common.UsageErrorCallback,
					},
					{
						Name:   "list",
						Usage:  "show pending queue entries",
						Action: queueList,
					},
					{
						Name:                   "run",
						Usage:                  "process the queue through sldl",
						Action:                 queueRun,
						Flags:                  runFlags,
						UseShortOptionHandling: true,
					},
					{
						Name:                   "clear",
						Usage:                  "drop all pending queue entries",
						Action:                 queueClear,
						Flags:                  clearFlags,
						UseShortOptionHandling: true,
					},
					{
						Name:   "status",
						Usage:  "show queue counts and lock state",
						Action: queueStatus,
					},
				},
			},
			{
				Name:               "wishlist",
				Aliases:            []string{"w"},
				Usage:              "manage and process the wishlist",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        WishlistDescription,
				Subcommands: []cli.Command{
					{
						Name:         "add",
						Usage:        "append an entry to the wishlist",
						Action:       wishlistAdd,
						OnUsageError: common.UsageErrorCallback,
					},
					{
						Name:   "list",
						Usage:  "show wishlist entries",
						Action: wishlistList,
					},
					{
						Name:                   "run",
						Usage:                  "re-check every wishlist entry through sldl",
						Action:                 wishlistRun,
						Flags:                  runFlags,
						UseShortOptionHandling: true,
					},
					{
						Name:                   "clear",
						Usage:                  "drop all wishlist entries",
						Action:                 wishlistClear,
						Flags:                  clearFlags,
						UseShortOptionHandling: true,
					},
					{
						Name:   "status",
						Usage:  "show wishlist counts and lock state",
						Action: wishlistStatus,
					},
				},
			},
			{
				Name:               "schedule",
				Aliases:            []string{"s"},
				Usage:              "manage cron jobs for unattended runs",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ScheduleDescription,
				Subcommands: []cli.Command{
					{
						Name:                   "set",
						Aliases:                []string{"add"},
						Usage:                  "install or update a profile's cron job",
						Action:                 scheduleSet,
						Flags:                  scheduleFlags,
						UseShortOptionHandling: true,
						OnUsageError:           common.UsageErrorCallback,
					},
					{
						Name:   "remove",
						Usage:  "remove a profile's cron job",
						Action: scheduleRemove,
					},
					{
						Name:    "list",
						Aliases: []string{"show"},
						Usage:   "show the managed cron jobs",
						Action:  scheduleList,
					},
				},
			},
			{
				Name:               "sldl",
				Usage:              "run sldl in the container with raw arguments",
				Action:             sldlRun,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        SldlDescription,
				SkipFlagParsing:    true,
			},
			{
				Name:               "shazam",
				Usage:              "run the music recognition tool with raw arguments",
				Action:             shazamRun,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ShazamDescription,
				SkipFlagParsing:    true,
			},
			{
				Name:               "config",
				Usage:              "inspect and maintain toolcrate configuration",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ConfigDescription,
				Subcommands: []cli.Command{
					{
						Name:   "show",
						Usage:  "print the loaded configuration",
						Action: configShow,
					},
					{
						Name:    "gen-sldl",
						Aliases: []string{"generate"},
						Usage:   "write the sldl config files from toolcrate.yaml",
						Action:  configGenSldl,
					},
					{
						Name:   "set-credentials",
						Usage:  "store the Soulseek password in the OS keyring",
						Action: configSetCredentials,
					},
				},
			},
			{
				Name:               "docker",
				Usage:              "manage the sldl container stack",
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DockerDescription,
				Subcommands: []cli.Command{
					{
						Name:   "up",
						Usage:  "start the compose stack",
						Action: dockerUp,
					},
					{
						Name:   "down",
						Usage:  "stop the compose stack",
						Action: dockerDown,
					},
					{
						Name:   "status",
						Usage:  "report whether the sldl container is running",
						Action: dockerStatus,
					},
				},
			},
			{
				Name:                   "history",
				Usage:                  "show recent run ledger entries",
				Action:                 historyShow,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            HistoryDescription,
				Flags:                  historyFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of toolcrate",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
