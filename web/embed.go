// Package web embeds the static marketing and crowdfund pages served
// by the API binary.
package web

import "embed"

//go:embed static
var StaticFS embed.FS
