package main

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdgilhuly/aipair/pkg/config"
	"github.com/jdgilhuly/aipair/pkg/dispatch"
	"github.com/jdgilhuly/aipair/pkg/fileset"
	"github.com/jdgilhuly/aipair/pkg/pack"
	"github.com/jdgilhuly/aipair/pkg/prompt"
	"github.com/jdgilhuly/aipair/pkg/registry"
	"github.com/jdgilhuly/aipair/pkg/report"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aipair",
	Short: "AI pair programming from the command line",
	Long: `Query one or more LLM providers with source files, project context,
and a request, collecting every provider's answer in one place.

Use 'aipair ask' to send a query, 'aipair pack' to bundle files and
context into a reusable package, and 'aipair providers' to see the
configured backends.`,
}

// --- ask command ---

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Query one or more LLM providers",
	Long: `Build a prompt from files, project context, and a request, then send
it to every requested provider concurrently.

Providers are named with -m as a comma-separated list; an explicit model
can be attached with a colon:

  aipair ask -m grok,gemini,openai:gpt-4-turbo -f main.go -r review

A provider that fails (missing credential, network error, remote error)
reports its failure in its own result slot without affecting the others.`,
	RunE: runAsk,
}

// loadConfig resolves the --config flag. The default path is optional;
// a path the user named explicitly must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cmd.Flags().Changed("config") {
		return config.Load(cfgPath)
	}
	return config.LoadOrDefault(cfgPath)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	models, _ := cmd.Flags().GetString("models")
	specs, err := registry.ParseQuerySpecs(models)
	if err != nil {
		return fmt.Errorf("parsing --models: %w", err)
	}

	requestType, _ := cmd.Flags().GetString("request")
	if !slices.Contains(prompt.RequestTypes, requestType) {
		return fmt.Errorf("invalid --request %q (choose from: review, improve, feedback, guidance)", requestType)
	}

	qc, err := buildQueryContext(cmd, requestType)
	if err != nil {
		return err
	}

	promptText := prompt.Build(qc)

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Querying %d provider(s); prompt is %d characters, %d file(s) attached\n",
			len(specs), len(promptText), len(qc.Files))
	}

	reg := registry.New(cfg.Overrides())
	d := dispatch.New(reg, dispatch.Config{
		Concurrency: cfg.Concurrency,
		Timeout:     time.Duration(cfg.Timeout),
	})

	temperature, _ := cmd.Flags().GetFloat64("temperature")
	results := d.Dispatch(cmd.Context(), specs, promptText, temperature)

	output, _ := cmd.Flags().GetString("output")
	asJSON, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	var buf bytes.Buffer
	if asJSON {
		err = report.WriteJSON(&buf, results)
	} else {
		// Color only when printing to a terminal, never into files.
		err = report.WriteText(&buf, results, output == "" && !noColor)
	}
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing output to %s: %w", output, err)
		}
		fmt.Printf("Output written to %s\n", output)
		return nil
	}

	fmt.Print(buf.String())
	return nil
}

// buildQueryContext merges a saved package (if any) with the command-line
// flags. Explicit flags win over package values; files given on the
// command line replace same-named package files.
func buildQueryContext(cmd *cobra.Command, requestType string) (prompt.QueryContext, error) {
	project, _ := cmd.Flags().GetString("project")
	additional, _ := cmd.Flags().GetString("context")
	customPrompt, _ := cmd.Flags().GetString("prompt")

	qc := prompt.QueryContext{
		ProjectContext:    project,
		RequestType:       requestType,
		AdditionalContext: additional,
		CustomPrompt:      customPrompt,
	}

	var files []prompt.File
	index := make(map[string]int)

	if pkgPath, _ := cmd.Flags().GetString("package"); pkgPath != "" {
		p, err := pack.Load(pkgPath)
		if err != nil {
			return qc, fmt.Errorf("loading package: %w", err)
		}
		if qc.ProjectContext == "" {
			qc.ProjectContext = p.ProjectContext
		}
		if qc.AdditionalContext == "" {
			qc.AdditionalContext = p.AdditionalContext
		}

		names := make([]string, 0, len(p.Files))
		for name := range p.Files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			index[name] = len(files)
			files = append(files, prompt.File{Name: name, Content: p.Files[name]})
		}
	}

	patterns, _ := cmd.Flags().GetStringArray("files")
	for _, f := range fileset.Read(patterns, os.Stderr) {
		pf := prompt.File{Name: f.Name, Content: f.Content}
		if i, ok := index[f.Name]; ok {
			files[i] = pf
			continue
		}
		index[f.Name] = len(files)
		files = append(files, pf)
	}

	qc.Files = files
	return qc, nil
}

// --- pack command ---

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Bundle files and context into a reusable package",
	Long: `Read files, compute per-file metadata (line count, size, language),
and write everything plus free-text context into a single JSON package.

The package can later seed a query via 'aipair ask --package'.`,
	RunE: runPack,
}

func runPack(cmd *cobra.Command, args []string) error {
	patterns, _ := cmd.Flags().GetStringArray("files")
	project, _ := cmd.Flags().GetString("project")
	additional, _ := cmd.Flags().GetString("context")
	output, _ := cmd.Flags().GetString("output")

	files := fileset.Read(patterns, os.Stderr)
	if len(files) == 0 {
		return fmt.Errorf("no readable files matched")
	}

	p := pack.Build(files, project, additional)
	if err := p.Save(output); err != nil {
		return err
	}

	fmt.Printf("Context package created: %s\n", output)
	fmt.Printf("Files included: %d\n", len(p.Files))
	names := make([]string, 0, len(p.FileSummary))
	for name := range p.FileSummary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := p.FileSummary[name]
		fmt.Printf("  - %s: %d lines, %s\n", name, s.Lines, s.Language)
	}
	fmt.Printf("Total size: %d characters\n", p.TotalSize())
	return nil
}

var packValidateCmd = &cobra.Command{
	Use:   "validate <package.json>",
	Short: "Check a saved package against its schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pack.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Package %s is valid (%d files).\n", args[0], len(p.Files))
		return nil
	},
}

// --- providers command ---

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		reg := registry.New(cfg.Overrides())
		fmt.Printf("  %-10s  %-30s  %s\n", "PROVIDER", "DEFAULT MODEL", "CREDENTIAL")
		for _, id := range reg.IDs() {
			spec, _ := reg.Lookup(id)
			fmt.Printf("  %-10s  %-30s  %s\n", spec.ID, spec.DefaultModel, spec.APIKeyEnv)
		}
		return nil
	},
}

func init() {
	// ask command flags
	askCmd.Flags().StringP("models", "m", "", "Comma-separated providers, e.g. grok,gemini,openai:gpt-4-turbo")
	askCmd.Flags().StringArrayP("files", "f", nil, "Files to include (globs like 'src/**/*.go' allowed)")
	askCmd.Flags().String("package", "", "Seed the query from a saved context package")
	askCmd.Flags().StringP("project", "p", "", "Project context (tech stack, framework, etc.)")
	askCmd.Flags().StringP("request", "r", "guidance", "Request type: review, improve, feedback, guidance")
	askCmd.Flags().StringP("context", "c", "", "Additional context (things tried, constraints, etc.)")
	askCmd.Flags().String("prompt", "", "Custom request text (overrides --request)")
	askCmd.Flags().StringP("output", "o", "", "Write results to a file instead of stdout")
	askCmd.Flags().Bool("json", false, "Output as JSON")
	askCmd.Flags().Float64P("temperature", "t", 0.7, "Sampling temperature (0.0 = deterministic, 1.0 = creative)")
	askCmd.Flags().String("config", "aipair.yaml", "Path to config file")
	askCmd.Flags().Bool("no-color", false, "Disable colored output")
	askCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	askCmd.MarkFlagRequired("models")

	// pack command flags
	packCmd.Flags().StringArrayP("files", "f", nil, "Files to include (globs allowed)")
	packCmd.Flags().StringP("project", "p", "", "Project context description")
	packCmd.Flags().StringP("context", "c", "", "Additional context")
	packCmd.Flags().StringP("output", "o", "", "Output JSON file")
	packCmd.MarkFlagRequired("files")
	packCmd.MarkFlagRequired("output")
	packCmd.AddCommand(packValidateCmd)

	// providers command flags
	providersCmd.Flags().String("config", "aipair.yaml", "Path to config file")

	// register all subcommands
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(providersCmd)
}
