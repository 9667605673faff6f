package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"

	"github.com/toolcrate/toolcrate/cmd/common"
	"github.com/toolcrate/toolcrate/internal/config"
	"github.com/toolcrate/toolcrate/pkg/credman"
)

// newCredman is swapped out in tests.
var newCredman = func() *credman.Manager { return credman.New("") }

func configShow(cliCtx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "config", "show", err)
		return nil
	}
	// The password never leaves the process, keyring-sourced or not.
	if cfg.Soulseek.Password != "" {
		cfg.Soulseek.Password = "********"
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "config", "show", err)
		return nil
	}
	fmt.Printf("# %s\n%s", configPath(), out)
	return nil
}

// configGenSldl renders the sldl config files for both profiles next to
// toolcrate.yaml; the docker compose mount makes them visible inside the
// container at the configured conf paths.
func configGenSldl(cliCtx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		common.PrintRuntimeErr(cliCtx, "config", "gen-sldl", err)
		return nil
	}
	for _, name := range config.ProfileNames {
		file := "sldl.conf"
		if name != "queue" {
			file = fmt.Sprintf("sldl-%s.conf", name)
		}
		path := filepath.Join(cfg.Dir(), file)
		if err := config.WriteSldlConf(cmdFs, path, cfg, name); err != nil {
			common.PrintRuntimeErr(cliCtx, "config", "gen-sldl", err)
			return nil
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func configSetCredentials(cliCtx *cli.Context) error {
	username := cliCtx.Args().First()
	if username == "" {
		cfg, err := loadConfig()
		if err != nil {
			common.PrintRuntimeErr(cliCtx, "config", "set-credentials", err)
			return nil
		}
		username = cfg.Soulseek.Username
	}
	if username == "" {
		return common.PrintErrWithCmdHelp(cliCtx,
			fmt.Errorf("no username given and none configured in %s", configPath()))
	}

	fmt.Printf("Soulseek password for %s: ", username)
	var password string
	_, _ = fmt.Scanf("%s", &password)
	if password == "" {
		fmt.Println("Empty password, nothing stored.")
		return nil
	}
	if err := newCredman().Set(username, password); err != nil {
		common.PrintRuntimeErr(cliCtx, "config", "set-credentials", err)
		return nil
	}
	fmt.Printf("Stored credentials for %s.\n", username)
	return nil
}
