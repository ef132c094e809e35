// Package web holds the embedded dashboard assets.
package web

import "embed"

//go:embed static
var Assets embed.FS
