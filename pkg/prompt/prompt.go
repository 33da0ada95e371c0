package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// File is one named source file included in a query.
type File struct {
	Name    string
	Content string
}

// QueryContext carries everything that goes into a single prompt.
// Files keep their input order; the assembler never reorders them.
type QueryContext struct {
	Files             []File
	ProjectContext    string
	RequestType       string
	AdditionalContext string
	CustomPrompt      string // overrides RequestType when set
}

// RequestTypes are the recognized values for QueryContext.RequestType.
var RequestTypes = []string{"review", "improve", "feedback", "guidance"}

var requestPrompts = map[string]string{
	"review":   "Please review the following code. Identify potential issues, bugs, security concerns, and areas for improvement. Be specific and actionable.",
	"improve":  "Please suggest specific improvements for the following code. Focus on code quality, performance, maintainability, and best practices.",
	"feedback": "Please provide feedback on the following plan/approach. Consider feasibility, potential issues, and suggestions for refinement.",
	"guidance": "Please provide guidance on the following question or problem. Be specific and practical.",
}

// fenceTags maps file extensions to markdown code fence language tags.
var fenceTags = map[string]string{
	".cs":    "csharp",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "jsx",
	".tsx":   "tsx",
	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".go":    "go",
	".rs":    "rust",
	".rb":    "ruby",
	".md":    "markdown",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".sql":   "sql",
}

// RequestPrompt returns the canned instruction text for a request type.
// Unrecognized types fall back to the generic guidance instruction.
func RequestPrompt(requestType string) string {
	if p, ok := requestPrompts[requestType]; ok {
		return p
	}
	return requestPrompts["guidance"]
}

// FenceTag returns the code fence tag for a filename, or the empty string
// when the extension is not recognized.
func FenceTag(filename string) string {
	return fenceTags[strings.ToLower(filepath.Ext(filename))]
}

// Build assembles the full prompt text from the context. It is pure and
// deterministic: identical contexts produce byte-identical prompts.
//
// Section order is fixed: Project Context, Request, Files, Additional
// Context. Absent optional sections are omitted entirely.
func Build(ctx QueryContext) string {
	var parts []string

	if ctx.ProjectContext != "" {
		parts = append(parts, "## Project Context\n"+ctx.ProjectContext)
	}

	if ctx.CustomPrompt != "" {
		parts = append(parts, "## Request\n"+ctx.CustomPrompt)
	} else {
		parts = append(parts, "## Request\n"+RequestPrompt(ctx.RequestType))
	}

	if len(ctx.Files) > 0 {
		parts = append(parts, "## Files")
		for _, f := range ctx.Files {
			parts = append(parts, fmt.Sprintf("### %s\n```%s\n%s\n```", f.Name, FenceTag(f.Name), f.Content))
		}
	}

	if ctx.AdditionalContext != "" {
		parts = append(parts, "## Additional Context\n"+ctx.AdditionalContext)
	}

	return strings.Join(parts, "\n\n")
}
