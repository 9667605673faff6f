package common

import (
	"errors"
	"flag"
	"testing"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "toolcrate"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func TestInitRunBar(t *testing.T) {
	p := mpb.New()
	bar := InitRunBar(p, "", 10)
	if bar == nil {
		t.Fatal("expected a bar")
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("expected app help to be shown")
	}
}

func TestPrintErrWithCmdHelpNil(t *testing.T) {
	if err := PrintErrWithCmdHelp(newTestContext(), nil); err != nil {
		t.Errorf("nil error should pass through, got %v", err)
	}
}

func TestUsageErrorCallbackCommandLevel(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		called = true
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := UsageErrorCallback(ctx, errors.New("bad flag"), false); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("expected command help to be shown")
	}
}
