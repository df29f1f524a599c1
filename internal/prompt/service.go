// Package prompt provides prompt template management.
package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/randalmurphal/docket/internal/task"
)

// Service resolves and renders docket's prompt templates.
type Service struct {
	resolver *Resolver
}

// NewService creates a prompt service rooted at a docket data directory.
func NewService(docketDir string) *Service {
	return &Service{
		resolver: NewResolver(WithProjectDir(filepath.Join(docketDir, "prompts"))),
	}
}

// Resolve returns the raw template content and its source.
func (s *Service) Resolve(name string) (string, Source, error) {
	resolved, err := s.resolver.Resolve(name)
	if err != nil {
		return "", "", err
	}
	return resolved.Content, resolved.Source, nil
}

// Render resolves the named template and substitutes the given
// placeholder values into it.
func (s *Service) Render(name string, vars map[string]string) (string, error) {
	resolved, err := s.resolver.Resolve(name)
	if err != nil {
		return "", err
	}
	return Substitute(resolved.Content, vars), nil
}

// Substitute replaces every {{VAR}} key of vars in the template. Keys
// carry their braces, e.g. "{{NAME}}".
func Substitute(tmpl string, vars map[string]string) string {
	result := tmpl
	for k, v := range vars {
		result = strings.ReplaceAll(result, k, v)
	}
	return result
}

// TaskVars builds the substitution map for one task. The live task list,
// when given, resolves dependency identifiers back to readable names.
func TaskVars(t task.Task, all []task.Task) map[string]string {
	return map[string]string{
		"{{ID}}":                    t.ID,
		"{{NAME}}":                  t.Name,
		"{{STATUS}}":                string(t.Status),
		"{{DESCRIPTION}}":           orNone(t.Description),
		"{{IMPLEMENTATION_GUIDE}}":  orNone(t.ImplementationGuide),
		"{{VERIFICATION_CRITERIA}}": orNone(t.VerificationCriteria),
		"{{NOTES}}":                 orNone(t.Notes),
		"{{ANALYSIS_RESULT}}":       orNone(t.AnalysisResult),
		"{{SUMMARY}}":               orNone(t.Summary),
		"{{COMPLEXITY}}":            string(task.AssessComplexity(&t).Level),
		"{{DEPENDENCIES}}":          FormatIDs(t.Dependencies, all),
		"{{RELATED_FILES}}":         formatRelatedFiles(t.RelatedFiles),
		"{{CREATED_AT}}":            t.CreatedAt.Format(time.RFC3339),
		"{{UPDATED_AT}}":            t.UpdatedAt.Format(time.RFC3339),
		"{{COMPLETED_AT}}":          formatCompletedAt(t.CompletedAt),
	}
}

// FormatIDs renders task identifiers as a bullet list, with names
// attached when the identifier is present in the live list.
func FormatIDs(ids []string, all []task.Task) string {
	if len(ids) == 0 {
		return "(none)"
	}

	nameByID := make(map[string]string, len(all))
	for _, t := range all {
		nameByID[t.ID] = t.Name
	}

	var b strings.Builder
	for _, id := range ids {
		if name, ok := nameByID[id]; ok {
			fmt.Fprintf(&b, "- %s (`%s`)\n", name, id)
		} else {
			fmt.Fprintf(&b, "- `%s`\n", id)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRelatedFiles(files []task.RelatedFile) string {
	if len(files) == 0 {
		return "(none)"
	}

	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "- [%s] %s", f.Type, f.Path)
		if f.LineStart > 0 && f.LineEnd > 0 {
			fmt.Fprintf(&b, " (lines %d-%d)", f.LineStart, f.LineEnd)
		}
		if f.Description != "" {
			fmt.Fprintf(&b, ": %s", f.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCompletedAt(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.Format(time.RFC3339)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
