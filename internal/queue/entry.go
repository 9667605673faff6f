package queue

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// commentPrefix marks a line as a comment. Comment and blank lines are
// ignored for processing but preserved verbatim when entries are removed.
const commentPrefix = "#"

// fileHeader is written when a queue file is created or cleared.
const fileHeader = `# Download queue
# Add playlist URLs, album URLs, or search terms below, one per line.
# Lines starting with # are comments and are ignored.
# Successfully processed lines are moved to the backup file.

`

// Entry is one non-blank, non-comment line of a queue file. The text is
// handed verbatim to the external downloader; no validation is performed
// here.
type Entry struct {
	// Line is the 1-based line number the entry was read from.
	Line int
	// Text is the trimmed line content, either a URL or a search expression.
	Text string
}

func (e Entry) String() string {
	return fmt.Sprintf("%d: %s", e.Line, e.Text)
}

// ReadEntries parses the queue file at path into its entries, in file
// order. A missing file is a valid steady state and yields zero entries.
func ReadEntries(fs afero.Fs, path string) ([]Entry, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open queue file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}
		entries = append(entries, Entry{Line: n, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read queue file: %w", err)
	}
	return entries, nil
}

// AppendEntry adds text to the end of the queue file, preceded by an
// "# Added" timestamp comment. The file (and its parent directory) is
// created with a header on first use.
func AppendEntry(fs afero.Fs, path, text string, now time.Time) error {
	if err := ensureFile(fs, path); err != nil {
		return err
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open queue file: %w", err)
	}
	defer f.Close()
	line := fmt.Sprintf("# Added %s\n%s\n\n", now.Format("2006-01-02 15:04:05"), text)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append queue entry: %w", err)
	}
	return nil
}

// ClearFile empties the queue file, keeping only the standard header.
// Nothing is moved to the backup file.
func ClearFile(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create queue dir: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(fileHeader), 0o644); err != nil {
		return fmt.Errorf("clear queue file: %w", err)
	}
	return nil
}

func ensureFile(fs afero.Fs, path string) error {
	if ok, err := afero.Exists(fs, path); err != nil {
		return fmt.Errorf("stat queue file: %w", err)
	} else if ok {
		return nil
	}
	return ClearFile(fs, path)
}
