package erasite

import "embed"

// EmbeddedAssets holds the site's stylesheet and scripts, served under /assets.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
