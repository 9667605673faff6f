package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/toolcrate/toolcrate/internal/config"
	"github.com/toolcrate/toolcrate/internal/docker"
)

var (
	cfgPath string

	// cmdFs is the filesystem all commands operate on; tests swap in a
	// memory-backed one.
	cmdFs = afero.NewOsFs()
)

func configPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultPath()
}

// loadConfig is a var so tests can substitute a canned config.
var loadConfig = func() (*config.Config, error) {
	return config.Load(cmdFs, configPath())
}

// newDockerClient is a var so tests can substitute a fake runner.
var newDockerClient = docker.NewClient

func confirm(action string, force bool) bool {
	if force {
		return true
	}
	fmt.Printf("Are you sure you want to %s? (yes/no): ", action)
	var i string
	_, _ = fmt.Scanf("%s", &i)
	switch strings.ToLower(i) {
	case "yes", "y", "true", "1":
		return true
	default:
		fmt.Println("Cancelled.")
		return false
	}
}
