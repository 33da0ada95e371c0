package prompt

import (
	"strings"
	"testing"
)

func TestBuild_SectionOrder(t *testing.T) {
	ctx := QueryContext{
		Files:             []File{{Name: "a.py", Content: "print(1)"}},
		ProjectContext:    "service X",
		RequestType:       "review",
		AdditionalContext: "tried Y already",
	}

	got := Build(ctx)

	sections := []string{
		"## Project Context",
		"service X",
		"## Request",
		"review the following code",
		"## Files",
		"### a.py",
		"```python",
		"print(1)",
		"## Additional Context",
		"tried Y already",
	}
	pos := -1
	for _, s := range sections {
		idx := strings.Index(got, s)
		if idx < 0 {
			t.Fatalf("Build() output missing %q:\n%s", s, got)
		}
		if idx <= pos {
			t.Errorf("section %q out of order (index %d, previous %d)", s, idx, pos)
		}
		pos = idx
	}
}

func TestBuild_OmitsEmptySections(t *testing.T) {
	got := Build(QueryContext{RequestType: "guidance"})

	if strings.Contains(got, "## Project Context") {
		t.Error("empty project context produced a section header")
	}
	if strings.Contains(got, "## Files") {
		t.Error("empty files produced a section header")
	}
	if strings.Contains(got, "## Additional Context") {
		t.Error("empty additional context produced a section header")
	}
	if !strings.Contains(got, "## Request") {
		t.Error("Request section is always present")
	}
}

func TestBuild_CustomPromptOverridesRequestType(t *testing.T) {
	got := Build(QueryContext{
		RequestType:  "review",
		CustomPrompt: "Explain this like I'm five.",
	})

	if !strings.Contains(got, "Explain this like I'm five.") {
		t.Error("custom prompt not present in output")
	}
	if strings.Contains(got, requestPrompts["review"]) {
		t.Error("canned request text present despite custom prompt")
	}
}

func TestBuild_UnknownRequestTypeFallsBack(t *testing.T) {
	got := Build(QueryContext{RequestType: "interpretive-dance"})
	if !strings.Contains(got, requestPrompts["guidance"]) {
		t.Error("unknown request type did not fall back to guidance")
	}
}

func TestBuild_UnknownExtensionUntagged(t *testing.T) {
	got := Build(QueryContext{
		RequestType: "review",
		Files:       []File{{Name: "Makefile.weird", Content: "all:"}},
	})
	if !strings.Contains(got, "```\nall:") {
		t.Errorf("unknown extension should produce an untagged fence:\n%s", got)
	}
}

func TestBuild_FileOrderPreserved(t *testing.T) {
	ctx := QueryContext{
		RequestType: "review",
		Files: []File{
			{Name: "z.go", Content: "package z"},
			{Name: "a.go", Content: "package a"},
		},
	}
	got := Build(ctx)
	if strings.Index(got, "### z.go") > strings.Index(got, "### a.go") {
		t.Error("files were reordered; input order must be preserved")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	ctx := QueryContext{
		Files:          []File{{Name: "a.py", Content: "print(1)"}, {Name: "b.rs", Content: "fn main() {}"}},
		ProjectContext: "service X",
		RequestType:    "improve",
	}
	if Build(ctx) != Build(ctx) {
		t.Error("Build() is not deterministic for identical contexts")
	}
}

func TestBuild_SectionsJoinedByBlankLine(t *testing.T) {
	got := Build(QueryContext{ProjectContext: "p", RequestType: "guidance"})
	if !strings.Contains(got, "p\n\n## Request") {
		t.Errorf("sections not joined by a blank line:\n%s", got)
	}
}

func TestFenceTag(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"main.go", "go"},
		{"App.CS", "csharp"},
		{"config.yml", "yaml"},
		{"notes.txt", ""},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := FenceTag(tt.filename); got != tt.want {
			t.Errorf("FenceTag(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestRequestPrompt(t *testing.T) {
	for _, rt := range RequestTypes {
		if RequestPrompt(rt) == "" {
			t.Errorf("RequestPrompt(%q) is empty", rt)
		}
	}
	if RequestPrompt("bogus") != requestPrompts["guidance"] {
		t.Error("RequestPrompt fallback is not the guidance text")
	}
}
