package cmd

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const DESCRIPTION = `
Toolcrate unifies the sldl Soulseek batch downloader and the shazam
music recognition tool, both running in Docker, behind one command
line. It keeps a download queue and a wishlist as plain text files,
processes them one entry at a time through the containerized
downloader, and can install cron jobs so both files are worked through
on a schedule.
`

const (
	QueueDescription = `The queue command manages the download queue: a plain
text file of links and search terms processed one at a time. Entries
that download successfully are moved to the processed ledger; failed
entries stay queued for the next run.

Example:
        toolcrate queue add "artist - song"
        toolcrate queue run

`
	WishlistDescription = `The wishlist command manages the wishlist: entries
that are re-checked on every run for better quality copies. Unlike the
queue, successful entries stay in the file; every run is also appended
to the processed ledger.

Example:
        toolcrate wishlist add "artist - album"
        toolcrate wishlist run

`
	ScheduleDescription = `The schedule command installs, lists and removes the
cron jobs that run the queue and wishlist unattended. Jobs live in a
marked section of your crontab; lines outside that section are never
touched.

Example:
        toolcrate schedule set queue --frequency hourly
        toolcrate schedule set wishlist --cron "30 2 * * *"
        toolcrate schedule remove queue

`
	SldlDescription = `The sldl command forwards its arguments directly to the
sldl binary inside the running container, for one-off invocations that
bypass the queue.

Example:
        toolcrate sldl --help
        toolcrate sldl "artist - song" -p /data/downloads

`
	ShazamDescription = `The shazam command forwards its arguments to the music
recognition tool, run as a one-off container with your music directory
mounted at /music. Use it to identify unknown tracks in your library.

Example:
        toolcrate shazam recognize /music/unknown.mp3

`
	ConfigDescription = `The config command inspects and maintains toolcrate's
configuration: it prints the loaded settings, regenerates the sldl
config files from the toolcrate.yaml quality sections, and stores the
Soulseek password in the OS keyring.

Example:
        toolcrate config show
        toolcrate config gen-sldl
        toolcrate config set-credentials

`
	DockerDescription = `The docker command manages the sldl container stack:
it brings the docker compose services up or down and reports whether
the container is running.

Example:
        toolcrate docker up
        toolcrate docker status

`
	HistoryDescription = `The history command prints recent entries from the
run ledger: which queue and wishlist entries were processed, when, and
whether they succeeded.

Example:
        toolcrate history
        toolcrate history -n 50

`
)
