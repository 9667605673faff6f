package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/toolcrate/toolcrate/pkg/credman"
)

// DefaultPath is where the config file lives unless --config overrides it.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "toolcrate.yaml"
	}
	return filepath.Join(home, ".config", "toolcrate", "toolcrate.yaml")
}

// lookupPassword is swapped out in tests.
var lookupPassword = func(username string) (string, error) {
	return credman.New("").Get(username)
}

// Load reads the YAML config at path, creating a commented default file
// first if none exists. Environment variables SLSK_USERNAME and
// SLSK_PASSWORD override the file; an empty password with use_keyring
// set is resolved from the OS keyring.
func Load(fs afero.Fs, path string) (*Config, error) {
	if ok, err := afero.Exists(fs, path); err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	} else if !ok {
		if err := writeDefault(fs, path); err != nil {
			return nil, err
		}
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.configDir = filepath.Dir(path)
	cfg.applyDefaults()

	if u := os.Getenv("SLSK_USERNAME"); u != "" {
		cfg.Soulseek.Username = u
	}
	if p := os.Getenv("SLSK_PASSWORD"); p != "" {
		cfg.Soulseek.Password = p
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Soulseek.Password == "" && cfg.Soulseek.UseKeyring {
		pw, err := lookupPassword(cfg.Soulseek.Username)
		if err != nil {
			return nil, fmt.Errorf("soulseek password not in keyring (run `toolcrate config set-credentials`): %w", err)
		}
		cfg.Soulseek.Password = pw
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Docker.Container == "" {
		c.Docker.Container = "sldl"
	}
	if c.Docker.ConfPath == "" {
		c.Docker.ConfPath = "/config/sldl.conf"
	}
	if c.Docker.WishlistConfPath == "" {
		c.Docker.WishlistConfPath = "/config/sldl-wishlist.conf"
	}
	if c.Recognition.Image == "" {
		c.Recognition.Image = "shazam-tool"
	}
	if c.Recognition.MusicDir == "" {
		c.Recognition.MusicDir = "~/Music"
	}
	if strings.HasPrefix(c.Recognition.MusicDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.Recognition.MusicDir = filepath.Join(home, c.Recognition.MusicDir[2:])
		}
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	if c.History.Path == "" {
		c.History.Path = "history.db"
	}

	applyProfileDefaults(&c.Queue, "download-queue.txt",
		"download-queue-processed.txt", ".queue-lock", "/data/downloads")
	applyProfileDefaults(&c.Wishlist, "wishlist.txt",
		"wishlist-processed.txt", ".wishlist-lock", "/data/library")

	// The wishlist keeps re-checking entries for better quality copies.
	if c.Wishlist.Settings.SkipExisting == nil {
		f := false
		c.Wishlist.Settings.SkipExisting = &f
	}
	if c.Wishlist.Settings.SkipCheckPrefCond == nil {
		t := true
		c.Wishlist.Settings.SkipCheckPrefCond = &t
	}
	if c.Wishlist.Settings.DesperateSearch == nil {
		t := true
		c.Wishlist.Settings.DesperateSearch = &t
	}
}

func applyProfileDefaults(pc *ProfileConfig, file, backup, lock, downloadDir string) {
	if pc.File == "" {
		pc.File = file
	}
	if pc.BackupFile == "" {
		pc.BackupFile = backup
	}
	if pc.LockFile == "" {
		pc.LockFile = lock
	}
	if pc.DownloadDir == "" {
		pc.DownloadDir = downloadDir
	}
	if pc.Settings.EntryTimeout == 0 {
		pc.Settings.EntryTimeout = Duration(time.Hour)
	}
	if pc.Settings.LockStaleAfter == 0 {
		pc.Settings.LockStaleAfter = Duration(6 * time.Hour)
	}
}

func writeDefault(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(defaultConfigYAML), 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

const defaultConfigYAML = `# toolcrate configuration
# Edit the soulseek section before the first run.

soulseek:
  username: ""
  # Leave the password empty and set use_keyring to store it with
  # "toolcrate config set-credentials" instead of keeping it here.
  password: ""
  use_keyring: false

docker:
  container: sldl
  compose_file: docker-compose.yml
  conf_path: /config/sldl.conf
  wishlist_conf_path: /config/sldl-wishlist.conf

# Music recognition passthrough (toolcrate shazam). The music directory
# is mounted into the container at /music.
recognition:
  image: shazam-tool
  music_dir: ~/Music

logger:
  level: info
  format: text

# One-shot downloads. Processed entries leave the queue.
queue:
  file: download-queue.txt
  backup_file: download-queue-processed.txt
  lock_file: .queue-lock
  download_dir: /data/downloads
  settings:
    remove_on_success: true
    skip_existing: true
    desperate_search: false
    use_ytdlp: true
    search_timeout: 60
    entry_timeout: 1h
    lock_stale_after: 6h
  quality:
    formats: [mp3]
    min_bitrate: 128

# Library-quality downloads, re-checked for better copies on every run.
wishlist:
  file: wishlist.txt
  backup_file: wishlist-processed.txt
  lock_file: .wishlist-lock
  download_dir: /data/library
  settings:
    remove_on_success: false
    skip_existing: false
    skip_check_pref_cond: true
    desperate_search: true
    use_ytdlp: true
    search_timeout: 120
    entry_timeout: 1h
    lock_stale_after: 6h
  quality:
    formats: [flac, mp3]
    min_bitrate: 320

history:
  enabled: true
  path: history.db
`
