// Package ui embeds the static frontend assets.
package ui

import "embed"

//go:embed dist
var DistFS embed.FS
