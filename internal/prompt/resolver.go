package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/docket/templates"
)

// Source indicates where a prompt came from.
type Source string

const (
	// SourceEnv is a DOCKET_PROMPT_<NAME> environment override.
	SourceEnv Source = "env"
	// SourceProject is a .docket/prompts/<name>.md project file.
	SourceProject Source = "project"
	// SourceEmbedded is the built-in template compiled into the binary.
	SourceEmbedded Source = "embedded"
)

// Resolved contains the resolved prompt content and metadata.
type Resolved struct {
	Content string `json:"content"`
	Source  Source `json:"source"`
	// Appended reports that a DOCKET_PROMPT_<NAME>_APPEND value was
	// attached to the base content.
	Appended bool `json:"appended,omitempty"`
}

// Resolver resolves prompt templates from their override chain.
type Resolver struct {
	projectDir string // .docket/prompts/
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithProjectDir sets the project prompts directory (.docket/prompts/).
func WithProjectDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.projectDir = dir
	}
}

// NewResolver creates a new Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the prompt content for a template name, checking
// sources in priority order:
//  1. DOCKET_PROMPT_<NAME> environment variable (full replacement)
//  2. Project file (.docket/prompts/<name>.md)
//  3. Embedded (built-in)
//
// DOCKET_PROMPT_<NAME>_APPEND attaches extra content to the project or
// embedded base. A full replacement ignores the append variable.
func (r *Resolver) Resolve(name string) (*Resolved, error) {
	if v := os.Getenv(envKey(name)); v != "" {
		return &Resolved{Content: v, Source: SourceEnv}, nil
	}

	resolved, err := r.base(name)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(envKey(name) + "_APPEND"); v != "" {
		resolved.Content += "\n\n" + v
		resolved.Appended = true
	}
	return resolved, nil
}

// base returns the project override when present, else the embedded
// default.
func (r *Resolver) base(name string) (*Resolved, error) {
	if r.projectDir != "" {
		content, err := os.ReadFile(filepath.Join(r.projectDir, name+".md"))
		if err == nil {
			return &Resolved{Content: string(content), Source: SourceProject}, nil
		}
	}

	content, err := templates.Prompts.ReadFile("prompts/" + name + ".md")
	if err != nil {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}
	return &Resolved{Content: string(content), Source: SourceEmbedded}, nil
}

// envKey maps a template name to its override variable name.
func envKey(name string) string {
	return "DOCKET_PROMPT_" + strings.ToUpper(name)
}
