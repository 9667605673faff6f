package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// WriteSldlConf renders the named profile into sldl's key = value config
// format at path. The file carries the Soulseek password, so it is
// written with 0600 and replaced atomically.
func WriteSldlConf(fs afero.Fs, path string, cfg *Config, profileName string) error {
	var pc ProfileConfig
	switch profileName {
	case "queue":
		pc = cfg.Queue
	case "wishlist":
		pc = cfg.Wishlist
	default:
		return fmt.Errorf("unknown profile %q", profileName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# sldl.conf - generated from toolcrate.yaml (%s profile)\n", profileName)
	b.WriteString("# Do not edit; run `toolcrate config gen-sldl` instead.\n\n")

	fmt.Fprintf(&b, "username = %s\n", cfg.Soulseek.Username)
	fmt.Fprintf(&b, "password = %s\n\n", cfg.Soulseek.Password)

	fmt.Fprintf(&b, "path = %s\n", pc.DownloadDir)

	q := pc.Quality
	if len(q.Formats) > 0 {
		fmt.Fprintf(&b, "pref-format = %s\n", strings.Join(q.Formats, ","))
	}
	if q.MinBitrate > 0 {
		fmt.Fprintf(&b, "pref-min-bitrate = %d\n", q.MinBitrate)
	}
	if q.MaxBitrate > 0 {
		fmt.Fprintf(&b, "pref-max-bitrate = %d\n", q.MaxBitrate)
	}
	b.WriteString("\n")

	s := pc.Settings
	if s.SearchTimeout > 0 {
		fmt.Fprintf(&b, "search-timeout = %d\n", s.SearchTimeout)
	}
	if boolOr(s.DesperateSearch, false) {
		b.WriteString("desperate = true\n")
	}
	if boolOr(s.UseYtdlp, true) {
		b.WriteString("yt-dlp = true\n")
	}
	if !boolOr(s.SkipExisting, true) {
		b.WriteString("no-skip-existing = true\n")
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write sldl conf: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("replace sldl conf: %w", err)
	}
	return nil
}
