// Package main is the entry point for the chjson CLI tool.
package main

import (
	"os"

	"github.com/chprotocol/chjson/internal/buildinfo"
	"github.com/chprotocol/chjson/internal/cli"
)

// Build-time metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/chprotocol/chjson/internal/buildinfo.Version=..."
var (
	version   = buildinfo.Version
	commit    = buildinfo.Commit
	date      = buildinfo.Date
	goVersion = buildinfo.GoVersion
)

func main() {
	os.Exit(cli.Execute())
}
