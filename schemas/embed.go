// Package schemas holds the JSON Schemas for the ranker's file formats.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
