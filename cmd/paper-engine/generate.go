package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-engine/internal/export"
	"github.com/pdiddy/paper-engine/internal/generate"
	"github.com/pdiddy/paper-engine/internal/library"
	"github.com/pdiddy/paper-engine/internal/secrets"
	"github.com/pdiddy/paper-engine/pkg/types"
)

const defaultOutputDir = "output"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a six-section research paper",
	Long: `Generate produces a complete research paper about a topic: Abstract,
Introduction, Methodology, Results, Discussion, and Conclusion, written
in that order. Each section prompt carries the full text of the sections
already written, so later sections stay consistent with earlier ones.

The finished paper is exported to docx (plus optional Markdown and HTML)
and archived in the local library unless --no-archive is set.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "research topic for the paper")
	generateCmd.Flags().String("methodology", "", "methodology the paper should describe")
	generateCmd.Flags().String("key-results", "", "key results the paper should report")
	generateCmd.Flags().String("request", "", "path to a request YAML file (overrides topic flags)")
	generateCmd.Flags().Bool("markdown", false, "also export the paper as Markdown")
	generateCmd.Flags().Bool("html", false, "also export the paper as HTML")
	generateCmd.Flags().String("provider", "", "AI provider: gemini, openai, or anthropic (default gemini)")
	generateCmd.Flags().String("model", "", "model identifier (default depends on provider)")
	generateCmd.Flags().String("api-key", "", "API key for the provider (overrides env and .secrets/)")
	generateCmd.Flags().Duration("delay", 0, "pause between consecutive sections (default 1s)")
	generateCmd.Flags().String("output-dir", "", "directory for exported papers (default output)")
	generateCmd.Flags().String("library-dir", "", "directory for the paper library (default library)")
	generateCmd.Flags().Bool("no-archive", false, "skip archiving the paper in the library")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	genCfg := generationConfigFromFlags(cmd)
	backend, err := generate.NewBackend(genCfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Generating paper on %q with %s\n\n", req.Topic, backend.Name())

	doc, err := generate.Run(context.Background(), backend, req, genCfg, generate.WriterProgress(os.Stdout))
	if err != nil {
		return err
	}

	exportCfg := types.ExportConfig{
		OutputDir: flagOrConfig(cmd, "output-dir", "export.output_dir", defaultOutputDir),
	}
	fmt.Fprintln(os.Stdout)
	if _, err := export.Export(doc, req, exportCfg, os.Stdout); err != nil {
		return err
	}

	noArchive, _ := cmd.Flags().GetBool("no-archive")
	if !noArchive {
		if err := archivePaper(doc, req, libraryConfig(cmd)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: library archive failed: %v\n", err)
		}
	}

	fmt.Fprintf(os.Stdout, "\nPaper %s complete: %d sections, %d references\n",
		doc.RunID, len(doc.Sections), len(doc.References))
	return nil
}

// requestFromFlags builds the paper request from --request or the topic flags.
func requestFromFlags(cmd *cobra.Command) (types.PaperRequest, error) {
	markdown, _ := cmd.Flags().GetBool("markdown")
	html, _ := cmd.Flags().GetBool("html")

	if path, _ := cmd.Flags().GetString("request"); path != "" {
		req, err := generate.LoadRequest(path)
		if err != nil {
			return types.PaperRequest{}, err
		}
		req.SaveMarkdown = req.SaveMarkdown || markdown
		req.SaveHTML = req.SaveHTML || html
		return *req, nil
	}

	topic, _ := cmd.Flags().GetString("topic")
	methodology, _ := cmd.Flags().GetString("methodology")
	keyResults, _ := cmd.Flags().GetString("key-results")

	return types.PaperRequest{
		Topic:        topic,
		Methodology:  methodology,
		KeyResults:   keyResults,
		SaveMarkdown: markdown,
		SaveHTML:     html,
	}, nil
}

// generationConfigFromFlags assembles provider settings from flags, the
// config file, environment variables, and .secrets/.
func generationConfigFromFlags(cmd *cobra.Command) types.GenerationConfig {
	provider := types.AIProvider(flagOrConfig(cmd, "provider", "generation.provider", ""))
	delay, _ := cmd.Flags().GetDuration("delay")

	return types.GenerationConfig{
		AIConfig: types.AIConfig{
			Provider: provider,
			Model:    flagOrConfig(cmd, "model", "generation.model", ""),
			APIKey:   resolveAPIKey(cmd, provider),
		},
		InterSectionDelay: delay,
	}
}

// resolveAPIKey resolves the provider key: --api-key first, then the
// provider's environment variable, then .secrets/.
func resolveAPIKey(cmd *cobra.Command, provider types.AIProvider) string {
	key, _ := cmd.Flags().GetString("api-key")
	if key == "" {
		key = os.Getenv(secrets.EnvVar(provider))
	}
	return secretDefault(secrets.KeyFile(provider), key)
}

func archivePaper(doc *types.PaperDocument, req types.PaperRequest, cfg types.LibraryConfig) error {
	store, err := library.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(context.Background(), doc, req); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "archived: %s\n", doc.RunID)
	return nil
}
