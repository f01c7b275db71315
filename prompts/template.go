// Package prompts manages versioned prompt templates with variable
// interpolation and file-backed storage.
package prompts

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fcrew/fcrew/types"
)

// Version is one revision of a template's content.
type Version struct {
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Comment   string    `json:"comment,omitempty"`
}

// String returns a short human-readable description of the version.
func (v Version) String() string {
	return fmt.Sprintf("Version %d (%s)", v.Version, v.CreatedAt.Format(time.RFC3339))
}

// Diff returns a unified-style diff from this version to other.
func (v Version) Diff(other Version) string {
	return unifiedDiff(
		strings.Split(v.Content, "\n"),
		strings.Split(other.Content, "\n"),
		fmt.Sprintf("v%d", v.Version),
		fmt.Sprintf("v%d", other.Version),
	)
}

// Template is a named prompt with ${var} placeholders and a full
// version history. Content always mirrors the newest version.
type Template struct {
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Variables   []string  `json:"variables"`
	Versions    []Version `json:"versions"`
}

// NewTemplate creates a template and records its initial version.
func NewTemplate(name, content, description string, variables []string) *Template {
	t := &Template{
		Name:        name,
		Description: description,
		Variables:   variables,
	}
	if t.Variables == nil {
		t.Variables = make([]string, 0)
	}
	t.AddVersion(content)
	return t
}

// AddVersion appends a new revision and makes it current.
func (t *Template) AddVersion(content string) Version {
	version := Version{
		Content:   content,
		Version:   len(t.Versions) + 1,
		CreatedAt: time.Now().UTC(),
	}
	t.Versions = append(t.Versions, version)
	t.Content = content
	return version
}

// GetVersion returns revision number n, counted from 1.
func (t *Template) GetVersion(n int) (Version, bool) {
	if n < 1 || n > len(t.Versions) {
		return Version{}, false
	}
	return t.Versions[n-1], true
}

// Format substitutes ${var} references in the current content. Every
// declared variable must be provided (MISSING_VARIABLES otherwise);
// undeclared references are left intact.
func (t *Template) Format(vars map[string]string) (string, error) {
	var missing []string
	for _, name := range t.Variables {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", types.NewErrorf(types.ErrMissingVariables,
			"missing required variables: %s", strings.Join(missing, ", "))
	}

	return os.Expand(t.Content, func(name string) string {
		if value, ok := vars[name]; ok {
			return value
		}
		return "${" + name + "}"
	}), nil
}

// ValidateVariables reports whether every declared variable is present.
func (t *Template) ValidateVariables(vars map[string]string) bool {
	for _, name := range t.Variables {
		if _, ok := vars[name]; !ok {
			return false
		}
	}
	return true
}

// unifiedDiff produces a minimal unified diff over two line slices
// using a longest-common-subsequence walk.
func unifiedDiff(a, b []string, fromLabel, toLabel string) string {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("--- " + fromLabel + "\n")
	sb.WriteString("+++ " + toLabel + "\n")

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			sb.WriteString(" " + a[i] + "\n")
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			sb.WriteString("-" + a[i] + "\n")
			i++
		default:
			sb.WriteString("+" + b[j] + "\n")
			j++
		}
	}
	for ; i < len(a); i++ {
		sb.WriteString("-" + a[i] + "\n")
	}
	for ; j < len(b); j++ {
		sb.WriteString("+" + b[j] + "\n")
	}
	return sb.String()
}
