package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jdgilhuly/aipair/pkg/fileset"
)

// FileSummary holds per-file metadata recorded alongside the content.
type FileSummary struct {
	Path     string `json:"path"`
	Lines    int    `json:"lines"`
	Size     int    `json:"size"`
	Language string `json:"language"`
}

// Package is a serializable bundle of files and free-text context,
// written once by `aipair pack` and reusable across later queries.
type Package struct {
	ID                string                 `json:"id"`
	CreatedAt         time.Time              `json:"created_at"`
	Files             map[string]string      `json:"files"`
	ProjectContext    string                 `json:"project_context,omitempty"`
	AdditionalContext string                 `json:"additional_context,omitempty"`
	FileSummary       map[string]FileSummary `json:"file_summary"`
}

// languages maps file extensions to display names for the summary.
var languages = map[string]string{
	".cs":    "C#",
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".jsx":   "React JSX",
	".tsx":   "React TSX",
	".java":  "Java",
	".kt":    "Kotlin",
	".swift": "Swift",
	".go":    "Go",
	".rs":    "Rust",
	".rb":    "Ruby",
	".md":    "Markdown",
	".json":  "JSON",
	".xml":   "XML",
	".yaml":  "YAML",
	".yml":   "YAML",
	".sql":   "SQL",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "SCSS",
	".sh":    "Shell",
	".ps1":   "PowerShell",
	".bat":   "Batch",
}

// Language returns the display language for a filename, or "Unknown".
func Language(filename string) string {
	if lang, ok := languages[strings.ToLower(filepath.Ext(filename))]; ok {
		return lang
	}
	return "Unknown"
}

// countLines counts lines the way an editor would: a trailing newline
// does not start a new line, and empty content has zero lines.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// Build assembles a Package from the given files and context strings.
// Each package gets a fresh ID and creation timestamp.
func Build(files []fileset.File, projectContext, additionalContext string) *Package {
	p := &Package{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		Files:             make(map[string]string, len(files)),
		ProjectContext:    projectContext,
		AdditionalContext: additionalContext,
		FileSummary:       make(map[string]FileSummary, len(files)),
	}

	for _, f := range files {
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			abs = f.Path
		}
		p.Files[f.Name] = f.Content
		p.FileSummary[f.Name] = FileSummary{
			Path:     abs,
			Lines:    countLines(f.Content),
			Size:     len(f.Content),
			Language: Language(f.Name),
		}
	}

	return p
}

// TotalSize returns the combined character count of all files.
func (p *Package) TotalSize() int {
	var total int
	for _, s := range p.FileSummary {
		total += s.Size
	}
	return total
}

// JSON serializes the Package as indented JSON.
func (p *Package) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Save writes the Package as pretty-printed JSON to the given path.
// Parent directories are created automatically.
func (p *Package) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating package directory %s: %w", dir, err)
	}

	data, err := p.JSON()
	if err != nil {
		return fmt.Errorf("marshaling package: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing package to %s: %w", path, err)
	}

	return nil
}

// Load reads a Package from a JSON file, validating it against the
// package schema first so a hand-edited or truncated file fails with a
// shape error instead of surfacing as a half-empty package.
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package file %s: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("invalid package file %s: %w", path, err)
	}

	var p Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing package file %s: %w", path, err)
	}

	return &p, nil
}
