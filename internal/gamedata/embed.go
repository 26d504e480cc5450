// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds all YAML tables from this directory at build time.
//
//go:embed *.yaml
var dataFS embed.FS
