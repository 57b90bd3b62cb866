package main

import (
	_ "embed"
	"strings"

	"exfix/cmd"
)

//go:embed VERSION
var embeddedVersion string

func init() {
	v := strings.TrimSpace(embeddedVersion)
	if v != "" && cmd.Version == "dev" {
		cmd.Version = v
	}
	// rootCmd captured the old value at init.
	cmd.ApplyVersion()
}
