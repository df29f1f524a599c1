// Package templates provides embedded prompt templates.
package templates

import "embed"

// Prompts contains embedded prompt template files (agent-facing task
// instructions). Placeholders use the {{UPPER_SNAKE}} form and are
// substituted by internal/prompt.
//
//go:embed prompts/*.md
var Prompts embed.FS
