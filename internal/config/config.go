// Package config owns the toolcrate YAML configuration: Soulseek
// credentials, the queue and wishlist profiles, Docker settings and
// logging options. It also translates the relevant sections into the
// key = value config file consumed by the sldl downloader itself.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of toolcrate.yaml.
type Config struct {
	Soulseek    Soulseek      `yaml:"soulseek" validate:"required"`
	Docker      Docker        `yaml:"docker"`
	Recognition Recognition   `yaml:"recognition"`
	Logger      Logger        `yaml:"logger"`
	Queue       ProfileConfig `yaml:"queue"`
	Wishlist    ProfileConfig `yaml:"wishlist"`
	History     History       `yaml:"history"`

	// configDir is the directory the config file was loaded from;
	// relative profile paths resolve against it.
	configDir string
}

// Soulseek holds the account used by the downloader.
type Soulseek struct {
	Username string `yaml:"username" validate:"required"`
	// Password may be empty when UseKeyring is set; it is then looked
	// up in the OS keyring under the username.
	Password   string `yaml:"password"`
	UseKeyring bool   `yaml:"use_keyring"`
}

// Docker configures how the sldl container is reached.
type Docker struct {
	// Container is the expected container name; detection also accepts
	// compose-style variants like <project>-sldl-1.
	Container   string `yaml:"container"`
	ComposeFile string `yaml:"compose_file"`
	// ConfPath is the sldl config file path inside the container.
	ConfPath         string `yaml:"conf_path"`
	WishlistConfPath string `yaml:"wishlist_conf_path"`
}

// Recognition configures the music recognition passthrough: the
// shazam-tool image run as a one-off container with the music directory
// mounted at /music.
type Recognition struct {
	Image    string `yaml:"image"`
	MusicDir string `yaml:"music_dir"`
}

// Logger mirrors the soul of the logging section: level and format of
// the CLI's structured log output.
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// History configures the run ledger database.
type History struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ProfileConfig is the YAML shape of one download profile (queue or
// wishlist): where its files live and which flags it forwards to sldl.
type ProfileConfig struct {
	Enabled     *bool    `yaml:"enabled"`
	File        string   `yaml:"file"`
	BackupFile  string   `yaml:"backup_file"`
	LockFile    string   `yaml:"lock_file"`
	DownloadDir string   `yaml:"download_dir"`
	Settings    Settings `yaml:"settings"`
	Quality     Quality  `yaml:"quality"`
}

// Quality holds the preferred-condition thresholds written into the
// profile's sldl config file.
type Quality struct {
	Formats    []string `yaml:"formats"`
	MinBitrate int      `yaml:"min_bitrate"`
	MaxBitrate int      `yaml:"max_bitrate"`
}

// Settings are the per-profile sldl tuning knobs.
type Settings struct {
	// RemoveOnSuccess moves processed entries out of the live file.
	// The queue removes them; the wishlist keeps them so every run
	// re-checks for better quality copies.
	RemoveOnSuccess   *bool    `yaml:"remove_on_success"`
	SkipExisting      *bool    `yaml:"skip_existing"`
	DesperateSearch   *bool    `yaml:"desperate_search"`
	UseYtdlp          *bool    `yaml:"use_ytdlp"`
	SkipCheckPrefCond *bool    `yaml:"skip_check_pref_cond"`
	SearchTimeout     int      `yaml:"search_timeout"`
	EntryTimeout      Duration `yaml:"entry_timeout"`
	LockStaleAfter    Duration `yaml:"lock_stale_after"`
}

// Duration is a time.Duration that marshals as a Go duration string
// ("90m", "1h30m") in YAML.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Profile is a resolved bundle of paths and flags for one run. It is
// loaded once per run and never mutated.
type Profile struct {
	Name           string
	Enabled        bool
	LiveFile       string
	BackupFile     string
	LockFile       string
	DownloadDir    string
	ConfPath       string
	Flags          []string
	KeepOnSuccess  bool
	EntryTimeout   time.Duration
	LockStaleAfter time.Duration
}

// ProfileNames lists the valid profile arguments.
var ProfileNames = []string{"queue", "wishlist"}

// Profile resolves the named profile against the loaded config.
func (c *Config) Profile(name string) (Profile, error) {
	var pc ProfileConfig
	var confPath string
	switch name {
	case "queue":
		pc, confPath = c.Queue, c.Docker.ConfPath
	case "wishlist":
		pc, confPath = c.Wishlist, c.Docker.WishlistConfPath
	default:
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return Profile{
		Name:           name,
		Enabled:        boolOr(pc.Enabled, true),
		LiveFile:       c.resolve(pc.File),
		BackupFile:     c.resolve(pc.BackupFile),
		LockFile:       c.resolve(pc.LockFile),
		DownloadDir:    pc.DownloadDir,
		ConfPath:       confPath,
		Flags:          pc.Settings.sldlFlags(),
		KeepOnSuccess:  !boolOr(pc.Settings.RemoveOnSuccess, name == "queue"),
		EntryTimeout:   time.Duration(pc.Settings.EntryTimeout),
		LockStaleAfter: time.Duration(pc.Settings.LockStaleAfter),
	}, nil
}

// sldlFlags renders the settings into the fixed flag set forwarded to
// sldl on every dispatch.
func (s Settings) sldlFlags() []string {
	var flags []string
	if boolOr(s.SkipExisting, true) {
		flags = append(flags, "--skip-existing")
	} else {
		flags = append(flags, "--no-skip-existing")
	}
	if boolOr(s.SkipCheckPrefCond, false) {
		flags = append(flags, "--skip-check-pref-cond")
	}
	if boolOr(s.DesperateSearch, false) {
		flags = append(flags, "--desperate")
	}
	if boolOr(s.UseYtdlp, true) {
		flags = append(flags, "--yt-dlp")
	}
	if s.SearchTimeout > 0 {
		flags = append(flags, "--search-timeout", fmt.Sprint(s.SearchTimeout))
	}
	return flags
}

// HistoryEnabled reports whether the run ledger is on (default true).
func (c *Config) HistoryEnabled() bool {
	return boolOr(c.History.Enabled, true)
}

// HistoryPath resolves the ledger database path.
func (c *Config) HistoryPath() string {
	return c.resolve(c.History.Path)
}

// Dir is the directory the config file lives in.
func (c *Config) Dir() string {
	return c.configDir
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.configDir, path)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
