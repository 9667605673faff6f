// Package cron maintains toolcrate's jobs inside the user crontab. All
// managed jobs live in a single section delimited by marker comments;
// updates read the whole crontab, replace that section and install the
// result, so hand-written lines outside the section are never touched.
package cron

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/adhocore/gronx"
)

const (
	sectionBegin = "# >>> toolcrate managed jobs - do not edit between these markers >>>"
	sectionEnd   = "# <<< toolcrate managed jobs <<<"
)

// Job is one managed crontab entry.
type Job struct {
	// Name identifies the job within the managed section ("queue",
	// "wishlist").
	Name string
	// Expr is a 5-field cron expression.
	Expr string
	// Command is the full command line cron runs.
	Command string
}

// Line renders the job as its two crontab lines: a name comment and the
// schedule line.
func (j Job) Line() string {
	return fmt.Sprintf("# toolcrate job: %s\n%s %s", j.Name, j.Expr, j.Command)
}

// ValidateExpr checks a 5-field cron expression. gronx also accepts
// 6-field (seconds) expressions, which crontab would reject, so the
// field count is enforced here.
func ValidateExpr(expr string) error {
	if len(strings.Fields(expr)) != 5 {
		return fmt.Errorf("invalid cron expression %q: expected 5 fields (minute hour day-of-month month day-of-week)", expr)
	}
	if !gronx.IsValid(expr) {
		return fmt.Errorf("invalid cron expression %q", expr)
	}
	return nil
}

// ExprFor maps a frequency preset to a cron expression. minuteOffset
// shifts the minute field so that the queue and wishlist jobs never
// start at the same instant. Anything that is not a preset is validated
// as a raw expression and returned unchanged.
func ExprFor(frequency string, minuteOffset int) (string, error) {
	switch frequency {
	case "hourly":
		return fmt.Sprintf("%d * * * *", minuteOffset), nil
	case "daily":
		return fmt.Sprintf("%d 0 * * *", minuteOffset), nil
	case "weekly":
		return fmt.Sprintf("%d 0 * * 0", minuteOffset), nil
	default:
		if err := ValidateExpr(frequency); err != nil {
			return "", err
		}
		return frequency, nil
	}
}

// ReplaceSection returns crontab with its managed section replaced by
// the given jobs, preserving everything outside the markers verbatim.
// With no jobs the section is removed entirely. A crontab without a
// section gets one appended.
func ReplaceSection(crontab string, jobs []Job) string {
	var section string
	if len(jobs) > 0 {
		lines := make([]string, 0, len(jobs)+2)
		lines = append(lines, sectionBegin)
		for _, j := range jobs {
			lines = append(lines, j.Line())
		}
		lines = append(lines, sectionEnd)
		section = strings.Join(lines, "\n")
	}

	before, after, found := cutSection(crontab)
	if !found {
		out := strings.TrimRight(crontab, "\n")
		if section == "" {
			if out == "" {
				return ""
			}
			return out + "\n"
		}
		if out != "" {
			out += "\n"
		}
		return out + section + "\n"
	}

	out := strings.TrimRight(before, "\n")
	if out != "" && section != "" {
		out += "\n"
	}
	out += section
	after = strings.TrimLeft(after, "\n")
	if after != "" {
		if out != "" {
			out += "\n"
		}
		out += after
	}
	if out == "" {
		return ""
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// Section extracts the managed jobs currently in the crontab text.
func Section(crontab string) []Job {
	_, _, found := cutSection(crontab)
	if !found {
		return nil
	}
	begin := strings.Index(crontab, sectionBegin)
	end := strings.Index(crontab, sectionEnd)
	body := crontab[begin+len(sectionBegin) : end]

	var jobs []Job
	name := ""
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "# toolcrate job: "):
			name = strings.TrimPrefix(line, "# toolcrate job: ")
		case strings.HasPrefix(line, "#"):
		default:
			fields := strings.Fields(line)
			if len(fields) < 6 {
				continue
			}
			jobs = append(jobs, Job{
				Name:    name,
				Expr:    strings.Join(fields[:5], " "),
				Command: strings.Join(fields[5:], " "),
			})
			name = ""
		}
	}
	return jobs
}

func cutSection(crontab string) (before, after string, found bool) {
	begin := strings.Index(crontab, sectionBegin)
	if begin < 0 {
		return "", "", false
	}
	end := strings.Index(crontab, sectionEnd)
	if end < begin {
		return "", "", false
	}
	return crontab[:begin], crontab[end+len(sectionEnd):], true
}

// Crontab reads and installs the user crontab via the crontab binary.
type Crontab struct {
	// RunCommand is swapped out in tests. It runs the named command and
	// returns its combined output.
	RunCommand func(ctx context.Context, stdin string, name string, args ...string) ([]byte, error)
}

// NewCrontab returns a Crontab backed by the real crontab binary.
func NewCrontab() *Crontab {
	return &Crontab{RunCommand: runCommand}
}

// Load returns the current crontab text. A user without a crontab yields
// an empty string, not an error.
func (c *Crontab) Load(ctx context.Context) (string, error) {
	out, err := c.RunCommand(ctx, "", "crontab", "-l")
	if err != nil {
		// crontab -l exits non-zero when the user has no crontab yet.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", fmt.Errorf("read crontab: %w", err)
	}
	return string(out), nil
}

// Install replaces the user crontab with the given text.
func (c *Crontab) Install(ctx context.Context, crontab string) error {
	if _, err := c.RunCommand(ctx, crontab, "crontab", "-"); err != nil {
		return fmt.Errorf("install crontab: %w", err)
	}
	return nil
}

// SetJob loads the crontab, upserts the named job in the managed section
// and installs the result.
func (c *Crontab) SetJob(ctx context.Context, job Job) error {
	if err := ValidateExpr(job.Expr); err != nil {
		return err
	}
	return c.update(ctx, func(jobs []Job) []Job {
		for i := range jobs {
			if jobs[i].Name == job.Name {
				jobs[i] = job
				return jobs
			}
		}
		return append(jobs, job)
	})
}

// RemoveJob drops the named job from the managed section.
func (c *Crontab) RemoveJob(ctx context.Context, name string) error {
	return c.update(ctx, func(jobs []Job) []Job {
		kept := jobs[:0]
		for _, j := range jobs {
			if j.Name != name {
				kept = append(kept, j)
			}
		}
		return kept
	})
}

// Jobs lists the currently managed jobs.
func (c *Crontab) Jobs(ctx context.Context) ([]Job, error) {
	crontab, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Section(crontab), nil
}

func (c *Crontab) update(ctx context.Context, f func([]Job) []Job) error {
	crontab, err := c.Load(ctx)
	if err != nil {
		return err
	}
	jobs := f(Section(crontab))
	return c.Install(ctx, ReplaceSection(crontab, jobs))
}

func runCommand(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	return cmd.CombinedOutput()
}
